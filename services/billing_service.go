package services

import (
	"errors"
	"fmt"
	"time"

	"kennelpro-backend/models"
	"kennelpro-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingService struct {
	db *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{db: db}
}

// CreateEstimate prices the reservation's current line items against the
// catalog and persists the result as a draft estimate linked back to the
// reservation. Calling it again creates a fresh estimate; edits go through
// UpdateEstimate.
func (s *BillingService) CreateEstimate(facilityID, reservationID uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res, items, facility, err := s.loadReservationForPricing(tx, facilityID, reservationID)
		if err != nil {
			return err
		}

		quote, err := s.quoteReservation(tx, *res, items, *facility, 0)
		if err != nil {
			return err
		}

		validUntil := time.Now().UTC().AddDate(0, 0, 30)
		estimate = models.Estimate{
			FacilityID:    facilityID,
			ReservationID: res.ID,
			Status:        models.EstimateStatusDraft,
			SubtotalCents: quote.SubtotalCents,
			TaxCents:      quote.TaxCents,
			DiscountCents: quote.DiscountCents,
			TotalCents:    quote.TotalCents,
			ValidUntil:    &validUntil,
		}
		if err := tx.Create(&estimate).Error; err != nil {
			return err
		}

		for _, line := range quote.Breakdown {
			item := models.EstimateLineItem{
				EstimateID:  estimate.ID,
				Description: line.Description,
				Quantity:    line.Quantity,
				AmountCents: line.AmountCents,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			estimate.Items = append(estimate.Items, item)
		}

		return tx.Model(&models.Reservation{}).Where("id = ?", res.ID).
			Update("estimate_id", estimate.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// UpdateEstimateInput carries the editable estimate fields.
type UpdateEstimateInput struct {
	DiscountCents        *int64  `json:"discountCents" binding:"omitempty,min=0"`
	DepositRequiredCents *int64  `json:"depositRequiredCents" binding:"omitempty,min=0"`
	Notes                *string `json:"notes"`
	Status               *string `json:"status" binding:"omitempty,oneof=draft sent accepted declined expired"`
}

// UpdateEstimate edits a persisted estimate. A discount change adjusts the
// total incrementally (total += oldDiscount - newDiscount, floored at zero)
// rather than re-running the pricing engine, so manual line tweaks survive.
func (s *BillingService) UpdateEstimate(facilityID, estimateID uuid.UUID, input UpdateEstimateInput) (*models.Estimate, error) {
	var estimate models.Estimate

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			Where("facility_id = ? AND id = ?", facilityID, estimateID).
			First(&estimate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Field edits are allowed while the estimate is still live; once it
		// is accepted, declined or expired only the status may move.
		fieldEdit := input.DiscountCents != nil || input.DepositRequiredCents != nil || input.Notes != nil
		switch estimate.Status {
		case models.EstimateStatusAccepted, models.EstimateStatusDeclined, models.EstimateStatusExpired:
			if fieldEdit {
				return ErrEstimateLocked
			}
		}

		if input.DiscountCents != nil && *input.DiscountCents != estimate.DiscountCents {
			estimate.TotalCents += estimate.DiscountCents - *input.DiscountCents
			if estimate.TotalCents < 0 {
				estimate.TotalCents = 0
			}
			estimate.DiscountCents = *input.DiscountCents
		}
		if input.DepositRequiredCents != nil {
			estimate.DepositRequiredCents = *input.DepositRequiredCents
		}
		if input.Notes != nil {
			estimate.Notes = *input.Notes
		}
		if input.Status != nil {
			estimate.Status = *input.Status
		}

		return tx.Save(&estimate).Error
	})
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// AcceptEstimate marks the estimate as agreed by the client.
func (s *BillingService) AcceptEstimate(facilityID, estimateID uuid.UUID) (*models.Estimate, error) {
	status := models.EstimateStatusAccepted
	return s.UpdateEstimate(facilityID, estimateID, UpdateEstimateInput{Status: &status})
}

// CreateInvoice generates the invoice for a reservation. When the
// reservation has a linked estimate the totals and line items are copied
// from it cent for cent, so the invoice matches whatever the client agreed
// to; otherwise a fresh quote is computed. Not idempotent: calling twice
// issues two invoices.
func (s *BillingService) CreateInvoice(facilityID, reservationID, userID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		res, items, facility, err := s.loadReservationForPricing(tx, facilityID, reservationID)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			FacilityID:      facilityID,
			CreatedByUserID: userID,
			OwnerID:         res.OwnerID,
			ReservationID:   &res.ID,
			InvoiceNumber:   newInvoiceNumber(),
			InvoiceDate:     time.Now().UTC(),
		}

		var lines []models.InvoiceLineItem

		if res.EstimateID != nil {
			var estimate models.Estimate
			if err := tx.Preload("Items").
				Where("facility_id = ? AND id = ?", facilityID, *res.EstimateID).
				First(&estimate).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			invoice.SubtotalCents = estimate.SubtotalCents
			invoice.TaxCents = estimate.TaxCents
			invoice.DiscountCents = estimate.DiscountCents
			invoice.TotalCents = estimate.TotalCents
			for _, li := range estimate.Items {
				lines = append(lines, models.InvoiceLineItem{
					Description: li.Description,
					Quantity:    li.Quantity,
					AmountCents: li.AmountCents,
				})
			}
		} else {
			quote, err := s.quoteReservation(tx, *res, items, *facility, 0)
			if err != nil {
				return err
			}
			invoice.SubtotalCents = quote.SubtotalCents
			invoice.TaxCents = quote.TaxCents
			invoice.DiscountCents = quote.DiscountCents
			invoice.TotalCents = quote.TotalCents
			for _, line := range quote.Breakdown {
				lines = append(lines, models.InvoiceLineItem{
					Description: line.Description,
					Quantity:    line.Quantity,
					AmountCents: line.AmountCents,
				})
			}
		}

		invoice.BalanceDueCents = invoice.TotalCents
		invoice.Status = models.InvoiceStatusSent

		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = invoice.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		invoice.Items = lines

		return s.addToOwnerBalance(tx, res.OwnerID, invoice.TotalCents, invoice.InvoiceDate)
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RecordPayment appends an immutable payment row and recomputes the invoice
// balance. Overpayment is accepted: amountPaid keeps the true sum while
// balanceDue clamps at zero, so change due stays derivable. The owner's
// aggregate balance is decremented by the payment, floored at zero.
func (s *BillingService) RecordPayment(facilityID, invoiceID uuid.UUID, amountCents int64, method, reference string) (*models.Payment, *models.Invoice, error) {
	if amountCents <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	var payment models.Payment
	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facility_id = ? AND id = ?", facilityID, invoiceID).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		payment = models.Payment{
			FacilityID:  facilityID,
			InvoiceID:   invoice.ID,
			AmountCents: amountCents,
			Method:      method,
			Reference:   reference,
			Status:      "completed",
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		// Increment in SQL rather than from the value read above, so two
		// concurrent payments cannot both write the same absolute sum and
		// lose one another's amount.
		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			Update("amount_paid_cents", gorm.Expr("amount_paid_cents + ?", amountCents)).Error; err != nil {
			return err
		}
		if err := tx.First(&invoice, "id = ?", invoice.ID).Error; err != nil {
			return err
		}

		invoice.BalanceDueCents = invoice.TotalCents - invoice.AmountPaidCents
		if invoice.BalanceDueCents < 0 {
			invoice.BalanceDueCents = 0
		}
		invoice.Status = invoice.DeriveStatus()

		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"balance_due_cents": invoice.BalanceDueCents,
				"status":            invoice.Status,
			}).Error; err != nil {
			return err
		}

		// Decrement the owner's aggregate balance in SQL, floored at zero.
		// Zero rows affected means a POS invoice with no owner on file.
		return tx.Model(&models.Owner{}).Where("id = ?", invoice.OwnerID).
			Update("balance_cents",
				gorm.Expr("CASE WHEN balance_cents > ? THEN balance_cents - ? ELSE 0 END",
					amountCents, amountCents)).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &invoice, nil
}

// POSItemInput is one cart row in a point-of-sale checkout.
type POSItemInput struct {
	CatalogItemID uuid.UUID `json:"catalogItemId" binding:"required"`
	Quantity      int       `json:"quantity" binding:"min=1"`
}

// POSPaymentInput is the optional immediate payment taken at the counter.
type POSPaymentInput struct {
	AmountCents int64  `json:"amountCents" binding:"required,min=1"`
	Method      string `json:"method" binding:"required"`
	Reference   string `json:"reference"`
}

// POSCheckout runs the same subtotal -> tax -> total -> payment sequence as
// the reservation pipeline for an ad-hoc cart of catalog items, producing a
// standalone invoice with no reservation attached.
func (s *BillingService) POSCheckout(facilityID, userID uuid.UUID, ownerID *uuid.UUID, items []POSItemInput, payment *POSPaymentInput) (*models.Invoice, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var invoice models.Invoice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var facility models.Facility
		if err := tx.Where("id = ?", facilityID).First(&facility).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var subtotal, taxable int64
		var lines []models.InvoiceLineItem

		for _, in := range items {
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
			amount := item.BasePriceCents * int64(qty)
			subtotal += amount
			if item.Taxable {
				taxable += amount
			}
			id := item.ID
			lines = append(lines, models.InvoiceLineItem{
				CatalogItemID:  &id,
				Description:    item.Name,
				Quantity:       qty,
				UnitPriceCents: item.BasePriceCents,
				AmountCents:    amount,
			})
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		tax := (taxable*int64(facility.TaxRateBps) + 5000) / 10000
		total := subtotal + tax

		ownerRef := uuid.Nil
		if ownerID != nil {
			ownerRef = *ownerID
		}

		invoice = models.Invoice{
			FacilityID:      facilityID,
			CreatedByUserID: userID,
			OwnerID:         ownerRef,
			InvoiceNumber:   newInvoiceNumber(),
			InvoiceDate:     time.Now().UTC(),
			SubtotalCents:   subtotal,
			TaxCents:        tax,
			TotalCents:      total,
			BalanceDueCents: total,
			Status:          models.InvoiceStatusSent,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceID = invoice.ID
			if err := tx.Create(&lines[i]).Error; err != nil {
				return err
			}
		}
		invoice.Items = lines

		if ownerID != nil {
			if err := s.addToOwnerBalance(tx, *ownerID, total, invoice.InvoiceDate); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if payment != nil {
		_, updated, err := s.RecordPayment(facilityID, invoice.ID, payment.AmountCents, payment.Method, payment.Reference)
		if err != nil {
			return nil, err
		}
		invoice.AmountPaidCents = updated.AmountPaidCents
		invoice.BalanceDueCents = updated.BalanceDueCents
		invoice.Status = updated.Status
	}

	return &invoice, nil
}

func (s *BillingService) loadReservationForPricing(tx *gorm.DB, facilityID, reservationID uuid.UUID) (*models.Reservation, []models.ReservationLineItem, *models.Facility, error) {
	var res models.Reservation
	if err := tx.Where("facility_id = ? AND id = ?", facilityID, reservationID).
		First(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}

	var items []models.ReservationLineItem
	if err := tx.Where("reservation_id = ?", reservationID).Find(&items).Error; err != nil {
		return nil, nil, nil, err
	}

	var facility models.Facility
	if err := tx.Where("id = ?", facilityID).First(&facility).Error; err != nil {
		return nil, nil, nil, err
	}

	return &res, items, &facility, nil
}

func (s *BillingService) quoteReservation(tx *gorm.DB, res models.Reservation, items []models.ReservationLineItem, facility models.Facility, discountCents int64) (QuoteResult, error) {
	var catalog []models.CatalogItem
	if err := tx.Where("facility_id = ? AND is_active = ?", facility.ID, true).
		Find(&catalog).Error; err != nil {
		return QuoteResult{}, err
	}
	return Quote(res, items, catalog, facility.TaxRateBps, discountCents, facility.DefaultBoardingRateCents), nil
}

// addToOwnerBalance increments the owner aggregates in SQL so concurrent
// invoices never overwrite each other. Zero rows affected is a walk-in with
// no owner record.
func (s *BillingService) addToOwnerBalance(tx *gorm.DB, ownerID uuid.UUID, amountCents int64, visitDate time.Time) error {
	return tx.Model(&models.Owner{}).Where("id = ?", ownerID).
		Updates(map[string]interface{}{
			"balance_cents": gorm.Expr("balance_cents + ?", amountCents),
			"total_visits":  gorm.Expr("total_visits + 1"),
			"last_visit":    visitDate,
		}).Error
}

func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%s", time.Now().Format("20060102"), utils.GenerateRandomString(6))
}
