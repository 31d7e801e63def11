package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"kennelpro-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Facility{},
		&models.User{},
		&models.Owner{},
		&models.Pet{},
		&models.KennelUnit{},
		&models.CatalogItem{},
		&models.Reservation{},
		&models.ReservationSegment{},
		&models.ReservationLineItem{},
		&models.Estimate{},
		&models.EstimateLineItem{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Payment{},
		&models.AuditLog{},
		&models.NotificationLog{},
	))
	return db
}

func seedFacility(t *testing.T, db *gorm.DB) models.Facility {
	t.Helper()
	facility := models.Facility{
		ID:                       uuid.New(),
		Name:                     "Maple Grove Pet Lodge",
		TaxRateBps:               800,
		DefaultBoardingRateCents: 5500,
		OperatingHours:           models.JSONB{},
	}
	require.NoError(t, db.Create(&facility).Error)
	return facility
}

func seedOwnerAndPet(t *testing.T, db *gorm.DB, facilityID uuid.UUID) (models.Owner, models.Pet) {
	t.Helper()
	owner := models.Owner{
		ID:         uuid.New(),
		FacilityID: facilityID,
		Name:       "Dana Reeves",
		Phone:      "+15550001111",
		IsActive:   true,
	}
	require.NoError(t, db.Create(&owner).Error)

	pet := models.Pet{
		FacilityID: facilityID,
		OwnerID:    owner.ID,
		Name:       "Biscuit",
		Species:    "dog",
		IsActive:   true,
	}
	require.NoError(t, db.Create(&pet).Error)
	return owner, pet
}

func seedUnit(t *testing.T, db *gorm.DB, facilityID uuid.UUID, name string) models.KennelUnit {
	t.Helper()
	unit := models.KennelUnit{
		FacilityID: facilityID,
		Name:       name,
		UnitType:   "run",
		Status:     models.UnitStatusActive,
	}
	require.NoError(t, db.Create(&unit).Error)
	return unit
}

func seedReservation(t *testing.T, db *gorm.DB, facilityID uuid.UUID, owner models.Owner, pet models.Pet, status string, startAt, endAt time.Time) models.Reservation {
	t.Helper()
	res := models.Reservation{
		FacilityID:  facilityID,
		PetID:       pet.ID,
		OwnerID:     owner.ID,
		Status:      status,
		ServiceType: "boarding",
		StartAt:     startAt,
		EndAt:       endAt,
	}
	require.NoError(t, db.Create(&res).Error)
	return res
}

func TestTransitionHappyPath(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	userID := uuid.New()

	start := time.Now().UTC().AddDate(0, 0, 1)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 3))

	svc := NewReservationService(db, NewEventBus())

	updated, err := svc.Transition(facility.ID, res.ID, userID, models.StatusConfirmed, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.Nil(t, updated.CheckInAt)

	updated, err = svc.Transition(facility.ID, res.ID, userID, models.StatusCheckedIn, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedIn, updated.Status)
	require.NotNil(t, updated.CheckInAt)

	updated, err = svc.Transition(facility.ID, res.ID, userID, models.StatusCheckedOut, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCheckedOut, updated.Status)
	require.NotNil(t, updated.CheckOutAt)
	assert.False(t, updated.CheckOutAt.Before(*updated.CheckInAt))

	var audits []models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", res.ID).Order("created_at").Find(&audits).Error)
	assert.Len(t, audits, 3)
	assert.Equal(t, "requested", audits[0].Detail["from"])
	assert.Equal(t, "confirmed", audits[0].Detail["to"])
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	userID := uuid.New()

	start := time.Now().UTC().AddDate(0, 0, 1)
	svc := NewReservationService(db, NewEventBus())

	cases := []struct {
		from, to string
	}{
		{models.StatusRequested, models.StatusCheckedIn},
		{models.StatusRequested, models.StatusCheckedOut},
		{models.StatusConfirmed, models.StatusCheckedOut},
		{models.StatusCheckedIn, models.StatusCancelled},
		{models.StatusCheckedIn, models.StatusConfirmed},
		{models.StatusCheckedOut, models.StatusCheckedIn},
		{models.StatusCheckedOut, models.StatusCancelled},
		{models.StatusCancelled, models.StatusConfirmed},
		{models.StatusCancelled, models.StatusRequested},
	}

	for _, tc := range cases {
		res := seedReservation(t, db, facility.ID, owner, pet, tc.from, start, start.AddDate(0, 0, 2))
		_, err := svc.Transition(facility.ID, res.ID, userID, tc.to, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s should be rejected", tc.from, tc.to)

		var reloaded models.Reservation
		require.NoError(t, db.First(&reloaded, "id = ?", res.ID).Error)
		assert.Equal(t, tc.from, reloaded.Status, "failed transition must not change status")
	}
}

func TestTransitionCancelRecordsReason(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	start := time.Now().UTC().AddDate(0, 0, 1)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, start.AddDate(0, 0, 2))

	svc := NewReservationService(db, NewEventBus())
	updated, err := svc.Transition(facility.ID, res.ID, uuid.New(), models.StatusCancelled,
		map[string]interface{}{"reason": "owner travel plans changed"})
	require.NoError(t, err)
	assert.Contains(t, updated.Notes, "Cancelled: owner travel plans changed")
}

func TestTransitionPublishesEvent(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	events := NewEventBus()
	var seen []Event
	events.Subscribe(func(evt Event) { seen = append(seen, evt) })

	start := time.Now().UTC().AddDate(0, 0, 1)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 2))

	svc := NewReservationService(db, events)
	_, err := svc.Transition(facility.ID, res.ID, uuid.New(), models.StatusConfirmed, nil)
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, ActionStatusChange, seen[0].Action)
	assert.Equal(t, res.ID, seen[0].EntityID)
	assert.Equal(t, models.StatusConfirmed, seen[0].Status)
}

func TestCheckInAfterCancelRejected(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	userID := uuid.New()

	start := time.Now().UTC().AddDate(0, 0, 1)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, start.AddDate(0, 0, 2))

	svc := NewReservationService(db, NewEventBus())

	// A cancel and a check-in compete for the same confirmed reservation;
	// whichever commits first wins and the other must lose, in either order.
	_, err := svc.Transition(facility.ID, res.ID, userID, models.StatusCancelled, nil)
	require.NoError(t, err)

	_, err = svc.Transition(facility.ID, res.ID, userID, models.StatusCheckedIn, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", res.ID).Error)
	assert.Equal(t, models.StatusCancelled, reloaded.Status)
	assert.Nil(t, reloaded.CheckInAt)

	var audits int64
	require.NoError(t, db.Model(&models.AuditLog{}).
		Where("entity_id = ?", res.ID).Count(&audits).Error)
	assert.Equal(t, int64(1), audits, "only the winning transition is audited")
}

func TestTransitionUnknownReservation(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)

	svc := NewReservationService(db, NewEventBus())
	_, err := svc.Transition(facility.ID, uuid.New(), uuid.New(), models.StatusConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckAvailabilityReportsConflicts(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	runA := seedUnit(t, db, facility.ID, "Run A")
	seedUnit(t, db, facility.ID, "Run B")

	stayStart := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	stayEnd := stayStart.AddDate(0, 0, 4)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, stayStart, stayEnd)
	require.NoError(t, db.Create(&models.ReservationSegment{
		ReservationID: res.ID,
		KennelUnitID:  runA.ID,
		StartAt:       stayStart,
		EndAt:         stayEnd,
	}).Error)

	svc := NewReservationService(db, NewEventBus())

	// Overlapping window: Run A is taken, Run B is free.
	result, err := svc.CheckAvailability(facility.ID, stayStart.AddDate(0, 0, 2), stayEnd.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, result, 2)

	byName := map[string]UnitAvailability{}
	for _, ua := range result {
		byName[ua.Unit.Name] = ua
	}
	assert.False(t, byName["Run A"].Available)
	assert.Equal(t, []uuid.UUID{res.ID}, byName["Run A"].Conflicts)
	assert.True(t, byName["Run B"].Available)

	// Back-to-back: a stay starting exactly when the other ends does not conflict.
	result, err = svc.CheckAvailability(facility.ID, stayEnd, stayEnd.AddDate(0, 0, 2))
	require.NoError(t, err)
	for _, ua := range result {
		assert.True(t, ua.Available, "unit %s should be free after checkout", ua.Unit.Name)
	}
}

func TestCheckAvailabilityIgnoresInactiveReservations(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	runA := seedUnit(t, db, facility.ID, "Run A")

	stayStart := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	stayEnd := stayStart.AddDate(0, 0, 4)

	for _, status := range []string{models.StatusCancelled, models.StatusCheckedOut} {
		res := seedReservation(t, db, facility.ID, owner, pet, status, stayStart, stayEnd)
		require.NoError(t, db.Create(&models.ReservationSegment{
			ReservationID: res.ID,
			KennelUnitID:  runA.ID,
			StartAt:       stayStart,
			EndAt:         stayEnd,
		}).Error)
	}

	svc := NewReservationService(db, NewEventBus())
	result, err := svc.CheckAvailability(facility.ID, stayStart, stayEnd)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].Available)
}

func TestCheckAvailabilitySkipsMaintenanceAndArchivedUnits(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)

	seedUnit(t, db, facility.ID, "Run A")
	down := seedUnit(t, db, facility.ID, "Run B")
	require.NoError(t, db.Model(&down).Update("status", models.UnitStatusMaintenance).Error)
	archived := seedUnit(t, db, facility.ID, "Run C")
	require.NoError(t, db.Model(&archived).Update("is_archived", true).Error)

	svc := NewReservationService(db, NewEventBus())
	start := time.Now().UTC()
	result, err := svc.CheckAvailability(facility.ID, start, start.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Run A", result[0].Unit.Name)
}

func TestReplaceSegmentsValidation(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	runA := seedUnit(t, db, facility.ID, "Run A")

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 3))

	svc := NewReservationService(db, NewEventBus())

	_, err := svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start.AddDate(0, 0, 1), EndAt: start},
	})
	assert.ErrorIs(t, err, ErrInvalidSegment)

	_, err = svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: start},
	})
	assert.ErrorIs(t, err, ErrInvalidSegment, "zero-length segment must be rejected")

	_, err = svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: uuid.New(), StartAt: start, EndAt: start.AddDate(0, 0, 1)},
	})
	assert.ErrorIs(t, err, ErrNotFound, "unknown unit must be rejected")
}

func TestReplaceSegmentsRejectsOverlappingInputs(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	runA := seedUnit(t, db, facility.ID, "Run A")
	runB := seedUnit(t, db, facility.ID, "Run B")

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 4))

	svc := NewReservationService(db, NewEventBus())

	// Two rows of the same request claiming the same unit for overlapping
	// windows must be rejected before anything is written.
	_, err := svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: start.AddDate(0, 0, 3)},
		{KennelUnitID: runA.ID, StartAt: start.AddDate(0, 0, 1), EndAt: start.AddDate(0, 0, 4)},
	})
	assert.ErrorIs(t, err, ErrSegmentConflict)

	var count int64
	require.NoError(t, db.Model(&models.ReservationSegment{}).
		Where("reservation_id = ?", res.ID).Count(&count).Error)
	assert.Zero(t, count)

	// Same unit back-to-back, or overlapping windows on different units, are fine.
	created, err := svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: start.AddDate(0, 0, 2)},
		{KennelUnitID: runA.ID, StartAt: start.AddDate(0, 0, 2), EndAt: start.AddDate(0, 0, 4)},
		{KennelUnitID: runB.ID, StartAt: start, EndAt: start.AddDate(0, 0, 4)},
	})
	require.NoError(t, err)
	assert.Len(t, created, 3)
}

func TestReplaceSegmentsRejectsDoubleBooking(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	runA := seedUnit(t, db, facility.ID, "Run A")

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	first := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, end)
	svc := NewReservationService(db, NewEventBus())

	_, err := svc.ReplaceSegments(facility.ID, first.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: end},
	})
	require.NoError(t, err)

	second := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested,
		start.AddDate(0, 0, 2), end.AddDate(0, 0, 2))
	_, err = svc.ReplaceSegments(facility.ID, second.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start.AddDate(0, 0, 2), EndAt: end.AddDate(0, 0, 2)},
	})
	assert.ErrorIs(t, err, ErrSegmentConflict)

	var count int64
	require.NoError(t, db.Model(&models.ReservationSegment{}).
		Where("reservation_id = ?", second.ID).Count(&count).Error)
	assert.Zero(t, count, "rejected replacement must not leave partial segments")
}

func TestReplaceSegmentsAllowsOwnOverlapAndCancelledNeighbours(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	runA := seedUnit(t, db, facility.ID, "Run A")
	runB := seedUnit(t, db, facility.ID, "Run B")

	start := time.Date(2026, 4, 10, 14, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	cancelled := seedReservation(t, db, facility.ID, owner, pet, models.StatusCancelled, start, end)
	require.NoError(t, db.Create(&models.ReservationSegment{
		ReservationID: cancelled.ID,
		KennelUnitID:  runA.ID,
		StartAt:       start,
		EndAt:         end,
	}).Error)

	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, end)
	svc := NewReservationService(db, NewEventBus())

	created, err := svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: end},
	})
	require.NoError(t, err, "cancelled stays must not block the unit")
	require.Len(t, created, 1)

	// Re-booking over its own existing segment is a replacement, not a conflict.
	created, err = svc.ReplaceSegments(facility.ID, res.ID, uuid.New(), []SegmentInput{
		{KennelUnitID: runA.ID, StartAt: start, EndAt: start.AddDate(0, 0, 2)},
		{KennelUnitID: runB.ID, StartAt: start.AddDate(0, 0, 2), EndAt: end},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	var count int64
	require.NoError(t, db.Model(&models.ReservationSegment{}).
		Where("reservation_id = ?", res.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestReplaceLineItemsSnapshotsCatalog(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	grooming := models.CatalogItem{
		FacilityID:     facility.ID,
		Name:           "Exit Grooming",
		ItemType:       models.ItemTypeAddOn,
		BasePriceCents: 3000,
		UnitType:       "each",
		Taxable:        true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&grooming).Error)

	start := time.Now().UTC().AddDate(0, 0, 1)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 3))

	svc := NewReservationService(db, NewEventBus())
	items, err := svc.ReplaceLineItems(facility.ID, res.ID, []LineItemInput{
		{CatalogItemID: grooming.ID, Quantity: 2},
		{CatalogItemID: uuid.New(), Quantity: 1}, // stale reference, dropped
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Exit Grooming", items[0].Name)
	assert.Equal(t, int64(3000), items[0].UnitPriceCents)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].Taxable)

	// Catalog price changes must not reprice the snapshot.
	require.NoError(t, db.Model(&grooming).Update("base_price_cents", 9900).Error)
	var reloaded models.ReservationLineItem
	require.NoError(t, db.First(&reloaded, "reservation_id = ?", res.ID).Error)
	assert.Equal(t, int64(3000), reloaded.UnitPriceCents)
}

func TestParseStatusFilter(t *testing.T) {
	status, ok := ParseStatusFilter("")
	assert.True(t, ok)
	assert.Empty(t, status)

	status, ok = ParseStatusFilter("  Confirmed ")
	assert.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, status)

	_, ok = ParseStatusFilter("bogus")
	assert.False(t, ok)
}
