package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	InvoiceStatusSent          = "sent"
	InvoiceStatusPartiallyPaid = "partially_paid"
	InvoiceStatusPaid          = "paid"
)

// Invoice totals are frozen at creation. AmountPaidCents and BalanceDueCents
// are mutated only by the payment ledger, which keeps the invariant
// BalanceDueCents == max(0, TotalCents - AmountPaidCents).
type Invoice struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`
	OwnerID         uuid.UUID `gorm:"type:uuid;index;not null"`

	// Nil for point-of-sale invoices not tied to a reservation.
	ReservationID *uuid.UUID `gorm:"type:uuid;index"`

	InvoiceNumber string    `gorm:"uniqueIndex;not null"`
	InvoiceDate   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	SubtotalCents int64 `gorm:"not null"`
	TaxCents      int64 `gorm:"default:0"`
	DiscountCents int64 `gorm:"default:0"`
	TotalCents    int64 `gorm:"not null"`

	AmountPaidCents int64  `gorm:"default:0"`
	BalanceDueCents int64  `gorm:"not null"`
	Status          string `gorm:"type:varchar(20);default:'sent'"`

	Notes string

	Items    []InvoiceLineItem `gorm:"foreignKey:InvoiceID"`
	Payments []Payment         `gorm:"foreignKey:InvoiceID"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// DeriveStatus maps the paid/total state onto the invoice status.
func (i *Invoice) DeriveStatus() string {
	switch {
	case i.BalanceDueCents == 0:
		return InvoiceStatusPaid
	case i.AmountPaidCents > 0:
		return InvoiceStatusPartiallyPaid
	default:
		return InvoiceStatusSent
	}
}

type InvoiceLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID `gorm:"type:uuid;index;not null"`

	CatalogItemID *uuid.UUID `gorm:"type:uuid;index"`
	Description   string     `gorm:"not null"`
	Quantity      int        `gorm:"default:1"`
	UnitPriceCents int64     `gorm:"default:0"`
	AmountCents   int64      `gorm:"not null"`
}

func (li *InvoiceLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}

// Payment rows are immutable once created; a refund is a separate
// negative-amount entry, never a mutation.
type Payment struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`
	InvoiceID  uuid.UUID `gorm:"type:uuid;index;not null"`

	AmountCents int64  `gorm:"not null"`
	Method      string `gorm:"type:varchar(20);not null"` // cash, card, transfer
	Reference   string
	Status      string `gorm:"type:varchar(20);default:'completed'"`

	CreatedAt time.Time
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
