package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Owner struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID      uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedByUserID uuid.UUID `gorm:"type:uuid;index"`

	Name  string `gorm:"not null"`
	Phone string `gorm:"not null;uniqueIndex:idx_facility_phone,priority:2"`
	Email string
	Notes string

	// Aggregate outstanding amount across all of the owner's invoices, in cents.
	// Incremented when an invoice is issued, decremented (never below zero) by payments.
	BalanceCents int64 `gorm:"default:0"`

	TotalVisits int `gorm:"default:0"`
	LastVisit   *time.Time
	IsActive    bool `gorm:"default:true"`

	Pets     []Pet     `gorm:"foreignKey:OwnerID"`
	Invoices []Invoice `gorm:"foreignKey:OwnerID"`

	gorm.Model
}

type Pet struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null"`

	Name        string `gorm:"not null"`
	Species     string `gorm:"default:'dog'"`
	Breed       string
	Temperament string
	Notes       string
	IsActive    bool `gorm:"default:true"`

	gorm.Model
}

func (p *Pet) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
