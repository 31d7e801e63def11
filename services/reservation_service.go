package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"kennelpro-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationService struct {
	db     *gorm.DB
	events *EventBus

	// Serializes check-then-write segment replacement so two concurrent
	// bookings cannot both pass the overlap check for the same unit.
	allocMu sync.Mutex
}

func NewReservationService(db *gorm.DB, events *EventBus) *ReservationService {
	return &ReservationService{db: db, events: events}
}

// Transition is the single chokepoint for every reservation status move.
// It checks the transition graph, stamps check-in/check-out times, appends
// an audit log entry and emits a status_change event. Any status move that
// bypasses this function is a bug.
func (s *ReservationService) Transition(facilityID, reservationID, userID uuid.UUID, target string, extra map[string]interface{}) (*models.Reservation, error) {
	var res models.Reservation

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facility_id = ? AND id = ?", facilityID, reservationID).
			First(&res).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		from := res.Status
		if !models.CanTransition(from, target) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		}

		now := time.Now().UTC()
		updates := map[string]interface{}{
			"status":     target,
			"updated_at": now,
		}

		switch target {
		case models.StatusCheckedIn:
			updates["check_in_at"] = now
		case models.StatusCheckedOut:
			updates["check_out_at"] = now
		case models.StatusCancelled:
			if reason, ok := extra["reason"].(string); ok && reason != "" {
				notes := res.Notes
				if notes != "" {
					notes += "\n"
				}
				updates["notes"] = notes + "Cancelled: " + reason
			}
		}

		// Merge caller-supplied fields, but never the ones this function owns.
		for k, v := range extra {
			switch k {
			case "status", "check_in_at", "check_out_at", "reason":
				continue
			}
			updates[k] = v
		}

		// Compare-and-swap on the status read above: if a concurrent
		// transition moved the reservation first, zero rows match and the
		// graph check must be re-judged against the new status, not ours.
		result := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", res.ID, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: reservation left %s concurrently", ErrInvalidTransition, from)
		}

		audit := models.AuditLog{
			FacilityID: facilityID,
			UserID:     userID,
			EntityType: "reservation",
			EntityID:   res.ID,
			Action:     ActionStatusChange,
			Detail:     models.JSONB{"from": from, "to": target},
		}
		if err := tx.Create(&audit).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", res.ID).First(&res).Error
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(Event{
		Action:     ActionStatusChange,
		EntityID:   res.ID,
		Status:     res.Status,
		FacilityID: facilityID,
	})

	return &res, nil
}

// UnitAvailability is one row of an availability query.
type UnitAvailability struct {
	Unit      models.KennelUnit `json:"unit"`
	Available bool              `json:"available"`
	Conflicts []uuid.UUID       `json:"conflicts"`
}

// CheckAvailability reports, for every bookable kennel unit, whether it is
// free across [startAt, endAt) and which reservations conflict if not.
// Only reservations in an active status occupy a unit; checked-out and
// cancelled stays never conflict.
func (s *ReservationService) CheckAvailability(facilityID uuid.UUID, startAt, endAt time.Time) ([]UnitAvailability, error) {
	var units []models.KennelUnit
	if err := s.db.Where("facility_id = ? AND status = ? AND is_archived = ?",
		facilityID, models.UnitStatusActive, false).
		Order("name").
		Find(&units).Error; err != nil {
		return nil, err
	}

	conflicts, err := s.conflictingSegments(s.db, facilityID, startAt, endAt, uuid.Nil)
	if err != nil {
		return nil, err
	}

	byUnit := make(map[uuid.UUID][]uuid.UUID)
	for _, seg := range conflicts {
		byUnit[seg.KennelUnitID] = append(byUnit[seg.KennelUnitID], seg.ReservationID)
	}

	result := make([]UnitAvailability, 0, len(units))
	for _, unit := range units {
		ids := dedupe(byUnit[unit.ID])
		result = append(result, UnitAvailability{
			Unit:      unit,
			Available: len(ids) == 0,
			Conflicts: ids,
		})
	}
	return result, nil
}

// SegmentInput is one requested lodging assignment.
type SegmentInput struct {
	KennelUnitID uuid.UUID `json:"kennelUnitId" binding:"required"`
	StartAt      time.Time `json:"startAt" binding:"required"`
	EndAt        time.Time `json:"endAt" binding:"required"`
}

// ReplaceSegments swaps the reservation's full segment set for the given one.
// The overlap check and the write happen under the allocator lock inside one
// transaction, so a competing booking can never slip between them.
func (s *ReservationService) ReplaceSegments(facilityID, reservationID, userID uuid.UUID, inputs []SegmentInput) ([]models.ReservationSegment, error) {
	for i, in := range inputs {
		if in.KennelUnitID == uuid.Nil || !in.StartAt.Before(in.EndAt) {
			return nil, ErrInvalidSegment
		}
		// Inputs must also not overlap each other on the same unit.
		for _, prev := range inputs[:i] {
			if prev.KennelUnitID == in.KennelUnitID &&
				prev.StartAt.Before(in.EndAt) && in.StartAt.Before(prev.EndAt) {
				return nil, fmt.Errorf("%w: unit %s", ErrSegmentConflict, in.KennelUnitID)
			}
		}
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	var created []models.ReservationSegment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Where("facility_id = ? AND id = ?", facilityID, reservationID).
			First(&res).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		unitIDs := make([]uuid.UUID, 0, len(inputs))
		for _, in := range inputs {
			unitIDs = append(unitIDs, in.KennelUnitID)
		}
		if len(unitIDs) > 0 {
			var count int64
			if err := tx.Model(&models.KennelUnit{}).
				Where("facility_id = ? AND id IN ? AND is_archived = ?", facilityID, unitIDs, false).
				Count(&count).Error; err != nil {
				return err
			}
			if int(count) < len(dedupe(unitIDs)) {
				return ErrNotFound
			}
		}

		for _, in := range inputs {
			conflicts, err := s.conflictingSegments(tx, facilityID, in.StartAt, in.EndAt, reservationID)
			if err != nil {
				return err
			}
			for _, seg := range conflicts {
				if seg.KennelUnitID == in.KennelUnitID {
					return fmt.Errorf("%w: unit %s", ErrSegmentConflict, in.KennelUnitID)
				}
			}
		}

		if err := tx.Where("reservation_id = ?", reservationID).
			Delete(&models.ReservationSegment{}).Error; err != nil {
			return err
		}

		for _, in := range inputs {
			seg := models.ReservationSegment{
				ReservationID: reservationID,
				KennelUnitID:  in.KennelUnitID,
				StartAt:       in.StartAt,
				EndAt:         in.EndAt,
			}
			if err := tx.Create(&seg).Error; err != nil {
				return err
			}
			created = append(created, seg)
		}

		audit := models.AuditLog{
			FacilityID: facilityID,
			UserID:     userID,
			EntityType: "reservation",
			EntityID:   reservationID,
			Action:     "segments_replaced",
			Detail:     models.JSONB{"count": len(created)},
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, err
	}

	if created == nil {
		created = []models.ReservationSegment{}
	}
	return created, nil
}

// LineItemInput references a catalog item to attach to a reservation.
type LineItemInput struct {
	CatalogItemID uuid.UUID  `json:"catalogItemId" binding:"required"`
	Quantity      int        `json:"quantity" binding:"min=1"`
	ServiceDate   *time.Time `json:"date"`
}

// ReplaceLineItems swaps the reservation's line items for the given set,
// snapshotting name/price/unit/taxability from the catalog at attach time.
// Items whose catalogItemId does not resolve are skipped, not rejected;
// callers can detect the drop by comparing input and output lengths.
// (Deliberate leniency inherited from the product; flagged for clarification.)
func (s *ReservationService) ReplaceLineItems(facilityID, reservationID uuid.UUID, inputs []LineItemInput) ([]models.ReservationLineItem, error) {
	created := []models.ReservationLineItem{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var res models.Reservation
		if err := tx.Where("facility_id = ? AND id = ?", facilityID, reservationID).
			First(&res).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Where("reservation_id = ?", reservationID).
			Delete(&models.ReservationLineItem{}).Error; err != nil {
			return err
		}

		for _, in := range inputs {
			var item models.CatalogItem
			if err := tx.Where("facility_id = ? AND id = ?", facilityID, in.CatalogItemID).
				First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // stale catalog reference, skip
				}
				return err
			}

			qty := in.Quantity
			if qty < 1 {
				qty = 1
			}
			li := models.ReservationLineItem{
				ReservationID:  reservationID,
				CatalogItemID:  item.ID,
				Quantity:       qty,
				ServiceDate:    in.ServiceDate,
				Name:           item.Name,
				UnitPriceCents: item.BasePriceCents,
				UnitType:       item.UnitType,
				Taxable:        item.Taxable,
			}
			if err := tx.Create(&li).Error; err != nil {
				return err
			}
			created = append(created, li)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// conflictingSegments returns segments of active reservations (other than
// excludeReservation) overlapping the half-open range [startAt, endAt).
func (s *ReservationService) conflictingSegments(tx *gorm.DB, facilityID uuid.UUID, startAt, endAt time.Time, excludeReservation uuid.UUID) ([]models.ReservationSegment, error) {
	var activeIDs []uuid.UUID
	q := tx.Model(&models.Reservation{}).
		Where("facility_id = ? AND status IN ?", facilityID, models.ActiveStatuses)
	if excludeReservation != uuid.Nil {
		q = q.Where("id <> ?", excludeReservation)
	}
	if err := q.Pluck("id", &activeIDs).Error; err != nil {
		return nil, err
	}
	if len(activeIDs) == 0 {
		return nil, nil
	}

	var segments []models.ReservationSegment
	if err := tx.Where("reservation_id IN ? AND start_at < ? AND end_at > ?",
		activeIDs, endAt, startAt).
		Find(&segments).Error; err != nil {
		return nil, err
	}
	return segments, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// ParseStatusFilter validates an optional ?status= query value.
func ParseStatusFilter(raw string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return "", true
	}
	_, ok := models.StatusTransitions[status]
	return status, ok
}
