package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EstimateStatusDraft    = "draft"
	EstimateStatusSent     = "sent"
	EstimateStatusAccepted = "accepted"
	EstimateStatusDeclined = "declined"
	EstimateStatusExpired  = "expired"
)

// Estimate is the editable pre-invoice quote for a reservation.
// It is superseded, never deleted, when an invoice is generated from it.
type Estimate struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null"`

	Status string `gorm:"type:varchar(20);default:'draft'"`

	SubtotalCents        int64 `gorm:"not null"`
	TaxCents             int64 `gorm:"default:0"`
	DiscountCents        int64 `gorm:"default:0"`
	TotalCents           int64 `gorm:"not null"`
	DepositRequiredCents int64 `gorm:"default:0"`

	Notes      string
	ValidUntil *time.Time

	Items []EstimateLineItem `gorm:"foreignKey:EstimateID"`

	gorm.Model
}

func (e *Estimate) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

type EstimateLineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EstimateID uuid.UUID `gorm:"type:uuid;index;not null"`

	Description string `gorm:"not null"`
	Quantity    int    `gorm:"default:1"`
	AmountCents int64  `gorm:"not null"`
}

func (li *EstimateLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}
