package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusRequested  = "requested"
	StatusConfirmed  = "confirmed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
	StatusCancelled  = "cancelled"
)

// StatusTransitions is the full transition graph for a reservation.
// Every status move goes through services.ReservationService.Transition,
// which consults this table; checked_out and cancelled are terminal.
var StatusTransitions = map[string][]string{
	StatusRequested:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusCheckedIn, StatusCancelled},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
	StatusCancelled:  {},
}

// ActiveStatuses are the statuses whose segments count toward kennel occupancy.
var ActiveStatuses = []string{StatusRequested, StatusConfirmed, StatusCheckedIn}

func CanTransition(from, to string) bool {
	for _, next := range StatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Reservation struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	FacilityID uuid.UUID `gorm:"type:uuid;index;not null"`
	PetID      uuid.UUID `gorm:"type:uuid;index;not null"`
	OwnerID    uuid.UUID `gorm:"type:uuid;index;not null"`

	Status      string `gorm:"type:varchar(20);default:'requested'"`
	ServiceType string `gorm:"not null"` // Boarding, Daycare, Grooming

	StartAt time.Time `gorm:"not null"`
	EndAt   time.Time `gorm:"not null"`

	// Set only by check-in / check-out transitions.
	CheckInAt  *time.Time
	CheckOutAt *time.Time

	Notes        string
	IsPreChecked bool `gorm:"default:false"`
	DepositPaid  bool `gorm:"default:false"`

	EstimateID *uuid.UUID `gorm:"type:uuid"`

	Segments  []ReservationSegment  `gorm:"foreignKey:ReservationID"`
	LineItems []ReservationLineItem `gorm:"foreignKey:ReservationID"`

	gorm.Model
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

// ReservationSegment assigns a reservation to one kennel unit for a
// contiguous sub-range of its stay. Split stays have several segments.
type ReservationSegment struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null"`
	KennelUnitID  uuid.UUID `gorm:"type:uuid;index;not null"`

	StartAt time.Time `gorm:"not null"`
	EndAt   time.Time `gorm:"not null"`
}

func (s *ReservationSegment) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// Overlaps reports whether two half-open [start,end) ranges intersect.
func (s ReservationSegment) Overlaps(startAt, endAt time.Time) bool {
	return s.StartAt.Before(endAt) && startAt.Before(s.EndAt)
}

// ReservationLineItem is an add-on charge attached to a reservation.
// Name, price, unit type and taxability are snapshotted at attach time so
// later catalog edits never reprice existing bookings.
type ReservationLineItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	ReservationID uuid.UUID `gorm:"type:uuid;index;not null"`
	CatalogItemID uuid.UUID `gorm:"type:uuid;index;not null"`

	Quantity    int `gorm:"default:1"`
	ServiceDate *time.Time

	Name           string `gorm:"not null"`
	UnitPriceCents int64  `gorm:"not null"`
	UnitType       string `gorm:"default:'each'"`
	Taxable        bool   `gorm:"default:true"`
}

func (li *ReservationLineItem) BeforeCreate(tx *gorm.DB) (err error) {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return
}
