// controllers/reservation.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/services"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateReservationInput defines the expected JSON structure for creating a reservation
type CreateReservationInput struct {
	PetID       uuid.UUID `json:"petId" binding:"required"`
	OwnerID     uuid.UUID `json:"ownerId" binding:"required"`
	ServiceType string    `json:"type" binding:"required"`
	StartAt     time.Time `json:"startAt" binding:"required"`
	EndAt       time.Time `json:"endAt" binding:"required"`
	Notes       string    `json:"notes"`
}

// UpdateReservationInput defines the PATCHable reservation fields.
// Status, checkInAt and checkOutAt are deliberately absent: the only way
// to move status is through the dedicated transition endpoints.
type UpdateReservationInput struct {
	PetID        *uuid.UUID `json:"petId"`
	ServiceType  *string    `json:"type"`
	StartAt      *time.Time `json:"startAt"`
	EndAt        *time.Time `json:"endAt"`
	Notes        *string    `json:"notes"`
	IsPreChecked *bool      `json:"isPreChecked"`
	DepositPaid  *bool      `json:"depositPaid"`
}

type CancelReservationInput struct {
	Reason string `json:"reason"`
}

// CreateReservation books a new stay in Requested status
func CreateReservation(c *gin.Context) {
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

	var input CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !input.StartAt.Before(input.EndAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "startAt must be before endAt")
		return
	}

	// Validate owner and pet belong to the same facility
	var owner models.Owner
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, input.OwnerID).
		First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}
	var pet models.Pet
	if err := config.DB.Where("facility_id = ? AND id = ? AND owner_id = ?",
		facilityUUID, input.PetID, input.OwnerID).
		First(&pet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusBadRequest, "Pet not found for this owner")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	reservation := models.Reservation{
		FacilityID:  facilityUUID,
		PetID:       input.PetID,
		OwnerID:     input.OwnerID,
		Status:      models.StatusRequested,
		ServiceType: input.ServiceType,
		StartAt:     input.StartAt.UTC(),
		EndAt:       input.EndAt.UTC(),
		Notes:       input.Notes,
	}

	if err := config.DB.Create(&reservation).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create reservation")
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// GetReservations lists reservations, optionally filtered by status and date window
func GetReservations(c *gin.Context) {
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

	query := config.DB.Preload("Segments").Preload("LineItems").
		Where("facility_id = ?", facilityUUID)

	status, ok := services.ParseStatusFilter(c.Query("status"))
	if !ok {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown status filter")
		return
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid from timestamp")
			return
		}
		query = query.Where("end_at > ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid to timestamp")
			return
		}
		query = query.Where("start_at < ?", t)
	}

	var reservations []models.Reservation
	if err := query.Order("start_at").Find(&reservations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reservations")
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// GetReservation retrieves a specific reservation by ID
func GetReservation(c *gin.Context) {
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

	var reservation models.Reservation
	if err := config.DB.Preload("Segments").Preload("LineItems").
		Where("facility_id = ? AND id = ?", facilityUUID, reservationUUID).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reservation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateReservation patches editable reservation fields
func UpdateReservation(c *gin.Context) {
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

	var input UpdateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var reservation models.Reservation
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, reservationUUID).
		First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Reservation not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.PetID != nil {
		var pet models.Pet
		if err := config.DB.Where("facility_id = ? AND id = ? AND owner_id = ?",
			facilityUUID, *input.PetID, reservation.OwnerID).
			First(&pet).Error; err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Pet not found for this owner")
			return
		}
		reservation.PetID = *input.PetID
	}
	if input.ServiceType != nil {
		reservation.ServiceType = *input.ServiceType
	}
	if input.StartAt != nil {
		reservation.StartAt = input.StartAt.UTC()
	}
	if input.EndAt != nil {
		reservation.EndAt = input.EndAt.UTC()
	}
	if !reservation.StartAt.Before(reservation.EndAt) {
		utils.RespondWithError(c, http.StatusBadRequest, "startAt must be before endAt")
		return
	}
	if input.Notes != nil {
		reservation.Notes = *input.Notes
	}
	if input.IsPreChecked != nil {
		reservation.IsPreChecked = *input.IsPreChecked
	}
	if input.DepositPaid != nil {
		reservation.DepositPaid = *input.DepositPaid
	}

	if err := config.DB.Save(&reservation).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update reservation")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// ConfirmReservation moves a requested reservation to confirmed
func ConfirmReservation(c *gin.Context) {
	transitionReservation(c, models.StatusConfirmed, nil)
}

// CheckInReservation moves a confirmed reservation to checked in
func CheckInReservation(c *gin.Context) {
	transitionReservation(c, models.StatusCheckedIn, nil)
}

// CheckOutReservation moves a checked-in reservation to checked out
func CheckOutReservation(c *gin.Context) {
	transitionReservation(c, models.StatusCheckedOut, nil)
}

// CancelReservation cancels a reservation with an optional reason
func CancelReservation(c *gin.Context) {
	var input CancelReservationInput
	// Body is optional for cancel
	_ = c.ShouldBindJSON(&input)

	extra := map[string]interface{}{}
	if input.Reason != "" {
		extra["reason"] = input.Reason
	}
	transitionReservation(c, models.StatusCancelled, extra)
}

func transitionReservation(c *gin.Context, target string, extra map[string]interface{}) {
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

	reservation, err := ReservationSvc.Transition(facilityUUID, reservationUUID, userUUID, target, extra)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateSegments replaces the reservation's lodging assignments
func UpdateSegments(c *gin.Context) {
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

	var inputs []services.SegmentInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	segments, err := ReservationSvc.ReplaceSegments(facilityUUID, reservationUUID, userUUID, inputs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, segments)
}

// UpdateLineItems replaces the reservation's add-on charges
func UpdateLineItems(c *gin.Context) {
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

	var inputs []services.LineItemInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	items, err := ReservationSvc.ReplaceLineItems(facilityUUID, reservationUUID, inputs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}
