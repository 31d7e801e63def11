package controllers

import (
	"net/http"

	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordPaymentInput defines the expected JSON structure for recording a payment
type RecordPaymentInput struct {
	InvoiceID   uuid.UUID `json:"invoiceId" binding:"required"`
	AmountCents int64     `json:"amountCents" binding:"required"`
	Method      string    `json:"method" binding:"required,oneof=cash card transfer"`
	Reference   string    `json:"reference"`
}

// RecordPayment applies a payment against an invoice and returns the payment
// together with the updated invoice. Overpayment is accepted; the derived
// change due is included in the response rather than persisted.
func RecordPayment(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	facilityUUID, err := uuid.Parse(facilityID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid facility ID format")
		return
	}

	var input RecordPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, invoice, err := BillingSvc.RecordPayment(facilityUUID, input.InvoiceID,
		input.AmountCents, input.Method, input.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var changeDue int64
	if invoice.AmountPaidCents > invoice.TotalCents {
		changeDue = invoice.AmountPaidCents - invoice.TotalCents
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":        payment,
		"invoice":        invoice,
		"changeDueCents": changeDue,
	})
}
