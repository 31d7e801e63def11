// controllers/catalog.go
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

// CreateCatalogItemInput defines the expected JSON structure for creating a catalog item
type CreateCatalogItemInput struct {
	Name           string `json:"name" binding:"required"`
	ItemType       string `json:"itemType" binding:"omitempty,oneof=service retail addon"`
	Category       string `json:"category"`
	BasePriceCents int64  `json:"basePriceCents" binding:"required,min=0"`
	UnitType       string `json:"unitType"`
	Taxable        *bool  `json:"taxable"`
}

// UpdateCatalogItemInput defines the expected JSON structure for updating a catalog item
type UpdateCatalogItemInput struct {
	Name           *string `json:"name"`
	ItemType       *string `json:"itemType" binding:"omitempty,oneof=service retail addon"`
	Category       *string `json:"category"`
	BasePriceCents *int64  `json:"basePriceCents" binding:"omitempty,min=0"`
	UnitType       *string `json:"unitType"`
	Taxable        *bool   `json:"taxable"`
	IsActive       *bool   `json:"isActive"`
}

// CreateCatalogItem creates a new priced service or retail item.
// Price changes here never touch existing bookings: line items snapshot
// the price at attach time.
func CreateCatalogItem(c *gin.Context) {
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

	var input CreateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	item := models.CatalogItem{
		FacilityID:     facilityUUID,
		Name:           input.Name,
		ItemType:       input.ItemType,
		Category:       input.Category,
		BasePriceCents: input.BasePriceCents,
		UnitType:       input.UnitType,
		Taxable:        true,
		IsActive:       true,
	}
	if item.ItemType == "" {
		item.ItemType = models.ItemTypeService
	}
	if item.UnitType == "" {
		item.UnitType = "each"
	}
	if input.Taxable != nil {
		item.Taxable = *input.Taxable
	}

	if err := config.DB.Create(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create catalog item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetCatalogItems retrieves all catalog items for the facility
func GetCatalogItems(c *gin.Context) {
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

	query := config.DB.Where("facility_id = ?", facilityUUID)
	if itemType := c.Query("type"); itemType != "" {
		query = query.Where("item_type = ?", itemType)
	}

	var items []models.CatalogItem
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve catalog items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// GetCatalogItem retrieves a specific catalog item by ID
func GetCatalogItem(c *gin.Context) {
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

	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid catalog item ID format")
		return
	}

	var item models.CatalogItem
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, itemUUID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateCatalogItem updates an existing catalog item
func UpdateCatalogItem(c *gin.Context) {
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

	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid catalog item ID format")
		return
	}

	var input UpdateCatalogItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var item models.CatalogItem
	if err := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, itemUUID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.ItemType != nil {
		item.ItemType = *input.ItemType
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.BasePriceCents != nil {
		item.BasePriceCents = *input.BasePriceCents
	}
	if input.UnitType != nil {
		item.UnitType = *input.UnitType
	}
	if input.Taxable != nil {
		item.Taxable = *input.Taxable
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&item).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update catalog item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteCatalogItem soft deletes a catalog item
func DeleteCatalogItem(c *gin.Context) {
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

	itemUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid catalog item ID format")
		return
	}

	result := config.DB.Where("facility_id = ? AND id = ?", facilityUUID, itemUUID).
		Delete(&models.CatalogItem{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete catalog item")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Catalog item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Catalog item deleted successfully"})
}
