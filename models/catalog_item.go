package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemTypeService = "service"
	ItemTypeRetail  = "retail"
	ItemTypeAddOn   = "addon"
)

type CatalogItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`

	Name           string `gorm:"not null"`
	ItemType       string `gorm:"type:varchar(20);default:'service'"`
	Category       string `gorm:"default:'General'"`
	BasePriceCents int64  `gorm:"not null"`
	UnitType       string `gorm:"default:'each'"` // each, night, hour
	Taxable        bool   `gorm:"default:true"`
	IsActive       bool   `gorm:"default:true"`

	gorm.Model
}

func (ci *CatalogItem) BeforeCreate(tx *gorm.DB) (err error) {
	if ci.ID == uuid.Nil {
		ci.ID = uuid.New()
	}
	return
}
