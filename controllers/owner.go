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

// CreateOwnerInput defines the expected JSON structure for creating an owner
type CreateOwnerInput struct {
	Name  string  `json:"name" binding:"required"`
	Phone string  `json:"phone" binding:"required"`
	Email *string `json:"email"` // Pointer to allow null
	Notes string  `json:"notes"`
}

// UpdateOwnerInput defines the expected JSON structure for updating an owner
type UpdateOwnerInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Notes    *string `json:"notes"`
	IsActive *bool   `json:"isActive"`
}

// CreateOwner creates a new pet owner for the facility
func CreateOwner(c *gin.Context) {
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

	var input CreateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	owner := models.Owner{
		ID:              uuid.New(),
		FacilityID:      facilityUUID,
		CreatedByUserID: userUUID,
		Name:            input.Name,
		Phone:           input.Phone,
		Notes:           input.Notes,
		IsActive:        true,
	}
	if input.Email != nil {
		owner.Email = *input.Email
	}

	if err := config.DB.Create(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create owner")
		return
	}

	c.JSON(http.StatusCreated, owner)
}

// GetOwners retrieves all owners for the facility
func GetOwners(c *gin.Context) {
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

	var owners []models.Owner
	if err := config.DB.Preload("Pets").
		Where("facility_id = ?", facilityUUID).
		Find(&owners).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve owners")
		return
	}

	c.JSON(http.StatusOK, owners)
}

// GetOwner retrieves a specific owner by ID
func GetOwner(c *gin.Context) {
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

	ownerID := c.Param("id")
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var owner models.Owner
	if err := config.DB.Preload("Pets").Preload("Invoices").
		Where("facility_id = ? AND id = ?", facilityUUID, ownerUUID).
		First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, owner)
}

// UpdateOwner updates an existing owner
func UpdateOwner(c *gin.Context) {
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

	ownerID := c.Param("id")
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	var input UpdateOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var owner models.Owner
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, ownerUUID).
		First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.Name != nil {
		owner.Name = *input.Name
	}
	if input.Phone != nil {
		if !utils.ValidatePhone(*input.Phone) {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
			return
		}
		owner.Phone = *input.Phone
	}
	if input.Email != nil {
		owner.Email = *input.Email
	}
	if input.Notes != nil {
		owner.Notes = *input.Notes
	}
	if input.IsActive != nil {
		owner.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&owner).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update owner")
		return
	}

	c.JSON(http.StatusOK, owner)
}

// DeleteOwner soft deletes an owner
func DeleteOwner(c *gin.Context) {
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

	ownerID := c.Param("id")
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid owner ID format")
		return
	}

	result := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, ownerUUID).
		Delete(&models.Owner{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete owner")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Owner not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Owner deleted successfully"})
}
