package services

import (
	"fmt"
	"strings"

	"kennelpro-backend/models"
	"kennelpro-backend/utils"
)

// QuoteLine is one contributing charge in a quote breakdown.
type QuoteLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amountCents"`
}

type QuoteResult struct {
	SubtotalCents int64       `json:"subtotalCents"`
	TaxCents      int64       `json:"taxCents"`
	DiscountCents int64       `json:"discountCents"`
	TotalCents    int64       `json:"totalCents"`
	Breakdown     []QuoteLine `json:"breakdown"`
}

// Quote prices a reservation from its snapshotted line items and the catalog.
// Pure function: identical inputs always produce an identical breakdown.
//
// Lodging is billed per night (partial nights round up, minimum one) at the
// rate of the first active catalog service whose name contains the
// reservation's service type, falling back to defaultNightlyRateCents.
// Lodging is always taxable; line items only when their snapshot says so.
// The total never goes below zero, however large the discount.
func Quote(res models.Reservation, items []models.ReservationLineItem, catalog []models.CatalogItem, taxRateBps int, discountCents, defaultNightlyRateCents int64) QuoteResult {
	nights := utils.NightsBetween(res.StartAt, res.EndAt)

	nightlyRate := defaultNightlyRateCents
	lodgingName := res.ServiceType
	if res.ServiceType != "" { // empty matches every catalog name
		for _, item := range catalog {
			if item.ItemType != models.ItemTypeService || !item.IsActive {
				continue
			}
			if strings.Contains(strings.ToLower(item.Name), strings.ToLower(res.ServiceType)) {
				nightlyRate = item.BasePriceCents
				lodgingName = item.Name
				break
			}
		}
	}

	lodging := nightlyRate * int64(nights)
	subtotal := lodging
	taxable := lodging

	breakdown := []QuoteLine{{
		Description: fmt.Sprintf("%s (%d nights)", lodgingName, nights),
		Quantity:    nights,
		AmountCents: lodging,
	}}

	for _, li := range items {
		amount := li.UnitPriceCents * int64(li.Quantity)
		subtotal += amount
		if li.Taxable {
			taxable += amount
		}
		breakdown = append(breakdown, QuoteLine{
			Description: li.Name,
			Quantity:    li.Quantity,
			AmountCents: amount,
		})
	}

	// Round half away from zero; taxable is never negative here.
	tax := (taxable*int64(taxRateBps) + 5000) / 10000

	total := subtotal + tax - discountCents
	if total < 0 {
		total = 0
	}

	return QuoteResult{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		DiscountCents: discountCents,
		TotalCents:    total,
		Breakdown:     breakdown,
	}
}
