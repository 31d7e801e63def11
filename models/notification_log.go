package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationLog keeps a record of every outbound owner message.
type NotificationLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID    uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID       uuid.UUID `gorm:"type:uuid;index;not null"`
	ReservationID uuid.UUID `gorm:"type:uuid;index"`

	Kind         string `gorm:"type:varchar(30)"` // booking_confirmation, checkin_reminder
	Message      string `gorm:"type:text"`
	Status       string `gorm:"type:varchar(20)"` // sent, failed
	ErrorMessage string `gorm:"type:text"`
	Channel      string `gorm:"type:varchar(20)"` // sms
	SentAt       time.Time

	gorm.Model
}

func (n *NotificationLog) BeforeCreate(tx *gorm.DB) (err error) {
	n.ID = uuid.New()
	return
}
