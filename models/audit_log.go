package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records every status transition and other attributable mutations.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID     uuid.UUID `gorm:"type:uuid;index"`

	EntityType string    `gorm:"type:varchar(40);not null"`
	EntityID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Action     string    `gorm:"type:varchar(40);not null"`
	Detail     JSONB     `gorm:"type:jsonb;default:'{}'"`

	CreatedAt time.Time
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}
