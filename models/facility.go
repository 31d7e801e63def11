package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

type Facility struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key"`
	Name    string    `gorm:"not null"`
	Address string
	Phone   string

	// Tax rate in basis points (800 = 8%)
	TaxRateBps               int   `gorm:"default:800"`
	DefaultBoardingRateCents int64 `gorm:"default:5500"`

	OperatingHours       JSONB `gorm:"type:jsonb;default:'{}'"`
	BookingConfirmations bool  `gorm:"default:true"`
	CheckInReminders     bool  `gorm:"default:true"`
	SMSNotifications     bool  `gorm:"default:false"`

	Users        []User        `gorm:"foreignKey:FacilityID"`
	Owners       []Owner       `gorm:"foreignKey:FacilityID"`
	KennelUnits  []KennelUnit  `gorm:"foreignKey:FacilityID"`
	CatalogItems []CatalogItem `gorm:"foreignKey:FacilityID"`
	Reservations []Reservation `gorm:"foreignKey:FacilityID"`
	Invoices     []Invoice     `gorm:"foreignKey:FacilityID"`
}

// Custom JSONB type for operating hours and audit detail
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j)
	case string:
		return json.Unmarshal([]byte(v), &j)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
}
