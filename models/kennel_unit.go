package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UnitStatusActive      = "active"
	UnitStatusMaintenance = "maintenance"
)

// KennelUnit is a physical lodging unit (run, suite, cattery condo).
// Only active, non-archived units participate in availability checks.
type KennelUnit struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name       string `gorm:"not null;uniqueIndex:idx_facility_unit,priority:2"`
	UnitType   string `gorm:"default:'run'"` // run, suite, condo
	Status     string `gorm:"type:varchar(20);default:'active'"`
	IsArchived bool   `gorm:"default:false"`

	Segments []ReservationSegment `gorm:"foreignKey:KennelUnitID"`

	gorm.Model
}

func (k *KennelUnit) BeforeCreate(tx *gorm.DB) (err error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return
}
