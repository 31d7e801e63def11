package services

import (
	"testing"
	"time"

	"kennelpro-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedGroomingItem(t *testing.T, db *gorm.DB, facilityID uuid.UUID) models.CatalogItem {
	t.Helper()
	item := models.CatalogItem{
		FacilityID:     facilityID,
		Name:           "Exit Grooming",
		ItemType:       models.ItemTypeAddOn,
		BasePriceCents: 3000,
		UnitType:       "each",
		Taxable:        true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

// seedPricedReservation builds the canonical five-night stay with a grooming
// add-on: subtotal 30500, tax 2440, total 32940 at the default 8% rate.
func seedPricedReservation(t *testing.T, db *gorm.DB, facility models.Facility, owner models.Owner, pet models.Pet) models.Reservation {
	t.Helper()
	start := time.Date(2026, 5, 4, 15, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 5).Add(-4 * time.Hour)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, end)

	item := seedGroomingItem(t, db, facility.ID)
	require.NoError(t, db.Create(&models.ReservationLineItem{
		ReservationID:  res.ID,
		CatalogItemID:  item.ID,
		Quantity:       1,
		Name:           item.Name,
		UnitPriceCents: item.BasePriceCents,
		UnitType:       item.UnitType,
		Taxable:        true,
	}).Error)
	return res
}

func TestCreateEstimate(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	estimate, err := svc.CreateEstimate(facility.ID, res.ID)
	require.NoError(t, err)

	assert.Equal(t, models.EstimateStatusDraft, estimate.Status)
	assert.Equal(t, int64(30500), estimate.SubtotalCents)
	assert.Equal(t, int64(2440), estimate.TaxCents)
	assert.Equal(t, int64(32940), estimate.TotalCents)
	require.NotNil(t, estimate.ValidUntil)
	assert.Len(t, estimate.Items, 2)

	var reloaded models.Reservation
	require.NoError(t, db.First(&reloaded, "id = ?", res.ID).Error)
	require.NotNil(t, reloaded.EstimateID)
	assert.Equal(t, estimate.ID, *reloaded.EstimateID)
}

func TestCreateEstimateUnknownReservation(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)

	svc := NewBillingService(db)
	_, err := svc.CreateEstimate(facility.ID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEstimateDiscountAdjustsTotalIncrementally(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	estimate, err := svc.CreateEstimate(facility.ID, res.ID)
	require.NoError(t, err)

	discount := int64(2000)
	updated, err := svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{DiscountCents: &discount})
	require.NoError(t, err)
	assert.Equal(t, int64(30940), updated.TotalCents)
	assert.Equal(t, int64(2000), updated.DiscountCents)

	// Shrinking the discount gives the difference back.
	discount = 500
	updated, err = svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{DiscountCents: &discount})
	require.NoError(t, err)
	assert.Equal(t, int64(32440), updated.TotalCents)

	// An absurd discount floors the total at zero.
	discount = 1000000
	updated, err = svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{DiscountCents: &discount})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.TotalCents)
}

func TestUpdateEstimateLockedAfterResolution(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	estimate, err := svc.CreateEstimate(facility.ID, res.ID)
	require.NoError(t, err)

	_, err = svc.AcceptEstimate(facility.ID, estimate.ID)
	require.NoError(t, err)

	discount := int64(2000)
	_, err = svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{DiscountCents: &discount})
	assert.ErrorIs(t, err, ErrEstimateLocked)

	notes := "late tweak"
	_, err = svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{Notes: &notes})
	assert.ErrorIs(t, err, ErrEstimateLocked)

	var reloaded models.Estimate
	require.NoError(t, db.First(&reloaded, "id = ?", estimate.ID).Error)
	assert.Equal(t, int64(0), reloaded.DiscountCents)
	assert.Equal(t, estimate.TotalCents, reloaded.TotalCents)

	// Status-only moves stay allowed.
	declined := models.EstimateStatusDeclined
	updated, err := svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{Status: &declined})
	require.NoError(t, err)
	assert.Equal(t, models.EstimateStatusDeclined, updated.Status)
}

func TestAcceptEstimate(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	estimate, err := svc.CreateEstimate(facility.ID, res.ID)
	require.NoError(t, err)

	accepted, err := svc.AcceptEstimate(facility.ID, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EstimateStatusAccepted, accepted.Status)
}

func TestCreateInvoiceCopiesEstimateVerbatim(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	estimate, err := svc.CreateEstimate(facility.ID, res.ID)
	require.NoError(t, err)

	discount := int64(1500)
	estimate, err = svc.UpdateEstimate(facility.ID, estimate.ID, UpdateEstimateInput{DiscountCents: &discount})
	require.NoError(t, err)

	invoice, err := svc.CreateInvoice(facility.ID, res.ID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, estimate.SubtotalCents, invoice.SubtotalCents)
	assert.Equal(t, estimate.TaxCents, invoice.TaxCents)
	assert.Equal(t, estimate.DiscountCents, invoice.DiscountCents)
	assert.Equal(t, estimate.TotalCents, invoice.TotalCents)
	assert.Equal(t, invoice.TotalCents, invoice.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusSent, invoice.Status)
	assert.Len(t, invoice.Items, 2)
	assert.NotEmpty(t, invoice.InvoiceNumber)

	var reloadedOwner models.Owner
	require.NoError(t, db.First(&reloadedOwner, "id = ?", owner.ID).Error)
	assert.Equal(t, invoice.TotalCents, reloadedOwner.BalanceCents)
	assert.Equal(t, 1, reloadedOwner.TotalVisits)
}

func TestCreateInvoiceWithoutEstimateQuotesFresh(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	invoice, err := svc.CreateInvoice(facility.ID, res.ID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, int64(30500), invoice.SubtotalCents)
	assert.Equal(t, int64(2440), invoice.TaxCents)
	assert.Equal(t, int64(32940), invoice.TotalCents)
}

func TestRecordPaymentLifecycle(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	invoice, err := svc.CreateInvoice(facility.ID, res.ID, uuid.New())
	require.NoError(t, err)

	// Partial payment.
	payment, updated, err := svc.RecordPayment(facility.ID, invoice.ID, 10000, "card", "auth-123")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), payment.AmountCents)
	assert.Equal(t, int64(10000), updated.AmountPaidCents)
	assert.Equal(t, int64(22940), updated.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, updated.Status)

	// Settle the remainder.
	_, updated, err = svc.RecordPayment(facility.ID, invoice.ID, 22940, "cash", "")
	require.NoError(t, err)
	assert.Equal(t, int64(32940), updated.AmountPaidCents)
	assert.Equal(t, int64(0), updated.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)

	var payments []models.Payment
	require.NoError(t, db.Where("invoice_id = ?", invoice.ID).Find(&payments).Error)
	assert.Len(t, payments, 2)

	var reloadedOwner models.Owner
	require.NoError(t, db.First(&reloadedOwner, "id = ?", owner.ID).Error)
	assert.Equal(t, int64(0), reloadedOwner.BalanceCents)
}

func TestPaymentLedgerMatchesInvoiceTotals(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	invoice, err := svc.CreateInvoice(facility.ID, res.ID, uuid.New())
	require.NoError(t, err)

	// amount_paid_cents is incremented in SQL, so the invoice total always
	// equals the sum of the ledger rows regardless of write interleaving.
	for _, amount := range []int64{5000, 7500, 12000} {
		_, _, err := svc.RecordPayment(facility.ID, invoice.ID, amount, "card", "")
		require.NoError(t, err)
	}

	var ledgerSum int64
	require.NoError(t, db.Model(&models.Payment{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&ledgerSum).Error)

	var reloaded models.Invoice
	require.NoError(t, db.First(&reloaded, "id = ?", invoice.ID).Error)
	assert.Equal(t, ledgerSum, reloaded.AmountPaidCents)
	assert.Equal(t, reloaded.TotalCents-ledgerSum, reloaded.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusPartiallyPaid, reloaded.Status)

	var reloadedOwner models.Owner
	require.NoError(t, db.First(&reloadedOwner, "id = ?", owner.ID).Error)
	assert.Equal(t, reloaded.BalanceDueCents, reloadedOwner.BalanceCents)
}

func TestRecordPaymentOverpaymentKeepsTrueSum(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)
	invoice, err := svc.CreateInvoice(facility.ID, res.ID, uuid.New())
	require.NoError(t, err)

	// Customer hands over a round 35000 against a 32940 bill.
	_, updated, err := svc.RecordPayment(facility.ID, invoice.ID, 35000, "cash", "")
	require.NoError(t, err)
	assert.Equal(t, int64(35000), updated.AmountPaidCents)
	assert.Equal(t, int64(0), updated.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusPaid, updated.Status)

	// Change due is derivable but never persisted.
	assert.Equal(t, int64(2060), updated.AmountPaidCents-updated.TotalCents)

	var reloadedOwner models.Owner
	require.NoError(t, db.First(&reloadedOwner, "id = ?", owner.ID).Error)
	assert.Equal(t, int64(0), reloadedOwner.BalanceCents, "owner balance must floor at zero")
}

func TestRecordPaymentValidation(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)

	svc := NewBillingService(db)

	_, _, err := svc.RecordPayment(facility.ID, uuid.New(), 0, "cash", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.RecordPayment(facility.ID, uuid.New(), -500, "cash", "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, _, err = svc.RecordPayment(facility.ID, uuid.New(), 1000, "cash", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPOSCheckout(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, _ := seedOwnerAndPet(t, db, facility.ID)

	treats := models.CatalogItem{
		FacilityID:     facility.ID,
		Name:           "Dog Treats",
		ItemType:       models.ItemTypeRetail,
		BasePriceCents: 1200,
		Taxable:        true,
		IsActive:       true,
	}
	require.NoError(t, db.Create(&treats).Error)

	svc := NewBillingService(db)

	_, err := svc.POSCheckout(facility.ID, uuid.New(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	// A cart of nothing but stale references is still empty.
	_, err = svc.POSCheckout(facility.ID, uuid.New(), nil, []POSItemInput{
		{CatalogItemID: uuid.New(), Quantity: 1},
	}, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	invoice, err := svc.POSCheckout(facility.ID, uuid.New(), &owner.ID, []POSItemInput{
		{CatalogItemID: treats.ID, Quantity: 3},
		{CatalogItemID: uuid.New(), Quantity: 1}, // dropped
	}, &POSPaymentInput{AmountCents: 3888, Method: "cash"})
	require.NoError(t, err)

	assert.Equal(t, int64(3600), invoice.SubtotalCents)
	assert.Equal(t, int64(288), invoice.TaxCents) // 8% of 3600
	assert.Equal(t, int64(3888), invoice.TotalCents)
	assert.Equal(t, int64(0), invoice.BalanceDueCents)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.Nil(t, invoice.ReservationID)
	assert.Len(t, invoice.Items, 1)
}

func TestExpireEstimates(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)
	res := seedPricedReservation(t, db, facility, owner, pet)

	svc := NewBillingService(db)

	makeEstimate := func(status string, validUntil time.Time) models.Estimate {
		estimate, err := svc.CreateEstimate(facility.ID, res.ID)
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Estimate{}).Where("id = ?", estimate.ID).
			Updates(map[string]interface{}{"status": status, "valid_until": validUntil}).Error)
		return *estimate
	}

	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 10)

	stale := makeEstimate(models.EstimateStatusSent, past)
	fresh := makeEstimate(models.EstimateStatusSent, future)
	draft := makeEstimate(models.EstimateStatusDraft, past)
	accepted := makeEstimate(models.EstimateStatusAccepted, past)

	ExpireEstimates(db)

	statusOf := func(id uuid.UUID) string {
		var e models.Estimate
		require.NoError(t, db.First(&e, "id = ?", id).Error)
		return e.Status
	}

	assert.Equal(t, models.EstimateStatusExpired, statusOf(stale.ID))
	assert.Equal(t, models.EstimateStatusSent, statusOf(fresh.ID))
	assert.Equal(t, models.EstimateStatusDraft, statusOf(draft.ID))
	assert.Equal(t, models.EstimateStatusAccepted, statusOf(accepted.ID))
}
