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

type CreateKennelUnitInput struct {
	Name     string `json:"name" binding:"required"`
	UnitType string `json:"unitType"`
}

type UpdateKennelUnitInput struct {
	Name     *string `json:"name"`
	UnitType *string `json:"unitType"`
	Status   *string `json:"status" binding:"omitempty,oneof=active maintenance"`
}

// CreateKennelUnit adds a physical lodging unit to the facility
func CreateKennelUnit(c *gin.Context) {
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

	var input CreateKennelUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	unit := models.KennelUnit{
		FacilityID: facilityUUID,
		Name:       input.Name,
		UnitType:   input.UnitType,
		Status:     models.UnitStatusActive,
	}
	if unit.UnitType == "" {
		unit.UnitType = "run"
	}

	if err := config.DB.Create(&unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create kennel unit")
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// GetKennelUnits retrieves all non-archived kennel units for the facility
func GetKennelUnits(c *gin.Context) {
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

	var units []models.KennelUnit
	if err := config.DB.Where("facility_id = ? AND is_archived = ?", facilityUUID, false).
		Order("name").
		Find(&units).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve kennel units")
		return
	}

	c.JSON(http.StatusOK, units)
}

// UpdateKennelUnit updates an existing kennel unit
func UpdateKennelUnit(c *gin.Context) {
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

	unitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid kennel unit ID format")
		return
	}

	var input UpdateKennelUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var unit models.KennelUnit
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, unitUUID).
		First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Kennel unit not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		unit.Name = *input.Name
	}
	if input.UnitType != nil {
		unit.UnitType = *input.UnitType
	}
	if input.Status != nil {
		unit.Status = *input.Status
	}

	if err := config.DB.Save(&unit).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update kennel unit")
		return
	}

	c.JSON(http.StatusOK, unit)
}

// ArchiveKennelUnit removes a unit from service without deleting its history
func ArchiveKennelUnit(c *gin.Context) {
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

	unitUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid kennel unit ID format")
		return
	}

	result := config.DB.Model(&models.KennelUnit{}).
		Where("facility_id = ? AND id = ?", facilityUUID, unitUUID).
		Update("is_archived", true)

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to archive kennel unit")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Kennel unit not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Kennel unit archived successfully"})
}
