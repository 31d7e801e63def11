package services

import "errors"

// Sentinel errors surfaced by the booking and billing services.
// Controllers map these onto HTTP statuses.
var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidSegment    = errors.New("segment requires a kennel unit and startAt before endAt")
	ErrSegmentConflict   = errors.New("kennel unit already booked for an overlapping period")
	ErrEmptyCart         = errors.New("checkout requires at least one item")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrEstimateLocked    = errors.New("estimate is no longer editable")
)
