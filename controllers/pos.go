package controllers

import (
	"net/http"

	"kennelpro-backend/services"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// POSCheckoutInput is an ad-hoc counter sale of catalog items
type POSCheckoutInput struct {
	OwnerID *uuid.UUID                `json:"ownerId"`
	Items   []services.POSItemInput   `json:"items" binding:"required"`
	Payment *services.POSPaymentInput `json:"payment"`
}

// POSCheckout produces a standalone invoice for a walk-in cart, optionally
// settling it with an immediate payment
func POSCheckout(c *gin.Context) {
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

	var input POSCheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoice, err := BillingSvc.POSCheckout(facilityUUID, userUUID, input.OwnerID, input.Items, input.Payment)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}
