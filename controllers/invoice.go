// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoice generates an invoice for a reservation. Totals come from the
// linked estimate when one exists, otherwise from a fresh quote.
func CreateInvoice(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	facilityUUID, err := uuid.Parse(facilityID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid facility ID format")
		return
	}
	userUUID, err := uuid.Parse(userID.(string))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid user ID format")
		return
	}

	reservationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID format")
		return
	}

	invoice, err := BillingSvc.CreateInvoice(facilityUUID, reservationUUID, userUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves all invoices for the facility
func GetInvoices(c *gin.Context) {
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

	query := config.DB.Preload("Items").Where("facility_id = ?", facilityUUID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []models.Invoice
	if err := query.Order("invoice_date DESC").Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
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

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Preload("Items").Preload("Payments").
		Where("facility_id = ? AND id = ?", facilityUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// GetInvoicePayments lists the payments recorded against an invoice
func GetInvoicePayments(c *gin.Context) {
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

	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var payments []models.Payment
	if err := config.DB.Where("invoice_id = ?", invoice.ID).
		Order("created_at").
		Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}
