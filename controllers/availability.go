package controllers

import (
	"net/http"
	"time"

	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetAvailability reports which kennel units are free across a time range
func GetAvailability(c *gin.Context) {
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

	startAt, err := time.Parse(time.RFC3339, c.Query("startAt"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid or missing startAt")
		return
	}
	endAt, err := time.Parse(time.RFC3339, c.Query("endAt"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid or missing endAt")
		return
	}
	if !startAt.Before(endAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "startAt must be before endAt")
		return
	}

	availability, err := ReservationSvc.CheckAvailability(facilityUUID, startAt, endAt)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
