package controllers

import (
	"errors"
	"net/http"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/services"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateEstimate prices a reservation and persists the quote
func CreateEstimate(c *gin.Context) {
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

	reservationUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID format")
		return
	}

	estimate, err := BillingSvc.CreateEstimate(facilityUUID, reservationUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, estimate)
}

// GetEstimate retrieves a specific estimate by ID
func GetEstimate(c *gin.Context) {
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

	estimateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	var estimate models.Estimate
	if err := config.DB.Preload("Items").
		Where("facility_id = ? AND id = ?", facilityUUID, estimateUUID).
		First(&estimate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Estimate not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// UpdateEstimate edits a draft estimate (discount, deposit, notes, status)
func UpdateEstimate(c *gin.Context) {
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

	estimateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	var input services.UpdateEstimateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	estimate, err := BillingSvc.UpdateEstimate(facilityUUID, estimateUUID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}

// AcceptEstimate marks an estimate as agreed by the client
func AcceptEstimate(c *gin.Context) {
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

	estimateUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid estimate ID format")
		return
	}

	estimate, err := BillingSvc.AcceptEstimate(facilityUUID, estimateUUID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimate)
}
