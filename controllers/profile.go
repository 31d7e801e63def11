package controllers

import (
	"net/http"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpdateProfileInput struct {
	FacilityName    string `json:"facilityName"`
	FacilityAddress string `json:"facilityAddress"`
	Phone           string `json:"phone"`
}

func GetProfile(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	var facility models.Facility
	if err := config.DB.First(&facility, "id = ?", facilityID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Facility not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facilityName":             facility.Name,
		"facilityAddress":          facility.Address,
		"phone":                    facility.Phone,
		"taxRateBps":               facility.TaxRateBps,
		"defaultBoardingRateCents": facility.DefaultBoardingRateCents,
		"operatingHours":           facility.OperatingHours,
		"bookingConfirmations":     facility.BookingConfirmations,
		"checkInReminders":         facility.CheckInReminders,
		"smsNotifications":         facility.SMSNotifications,
	})
}

func UpdateProfile(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var facility models.Facility
	if err := config.DB.First(&facility, "id = ?", facilityID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Facility not found")
		return
	}

	facility.Name = input.FacilityName
	facility.Address = input.FacilityAddress
	facility.Phone = input.Phone

	if err := config.DB.Save(&facility).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

func UpdateOperatingHours(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	var input struct {
		OperatingHours models.JSONB `json:"operatingHours"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Facility{}).Where("id = ?", facilityID).
		Update("operating_hours", input.OperatingHours).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update operating hours")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Operating hours updated"})
}

// UpdateBillingSettings adjusts the tax rate and default nightly boarding
// rate. Changes apply to future quotes only; issued invoices keep their
// frozen totals.
func UpdateBillingSettings(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	var input struct {
		TaxRateBps               *int   `json:"taxRateBps"`
		DefaultBoardingRateCents *int64 `json:"defaultBoardingRateCents"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	updates := map[string]interface{}{}
	if input.TaxRateBps != nil {
		if *input.TaxRateBps < 0 || *input.TaxRateBps > 10000 {
			utils.RespondWithError(c, http.StatusBadRequest, "Tax rate must be between 0 and 10000 basis points")
			return
		}
		updates["tax_rate_bps"] = *input.TaxRateBps
	}
	if input.DefaultBoardingRateCents != nil {
		if *input.DefaultBoardingRateCents < 0 {
			utils.RespondWithError(c, http.StatusBadRequest, "Boarding rate cannot be negative")
			return
		}
		updates["default_boarding_rate_cents"] = *input.DefaultBoardingRateCents
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&models.Facility{}).Where("id = ?", facilityID).
			Updates(updates).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update billing settings")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Billing settings updated"})
}

func UpdateNotificationSettings(c *gin.Context) {
	facilityID, exists := c.Get("facilityId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Facility ID not found in context")
		return
	}

	var input struct {
		BookingConfirmations bool `json:"bookingConfirmations"`
		CheckInReminders     bool `json:"checkInReminders"`
		SMSNotifications     bool `json:"smsNotifications"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := config.DB.Model(&models.Facility{}).Where("id = ?", facilityID).
		Updates(map[string]interface{}{
			"booking_confirmations": input.BookingConfirmations,
			"check_in_reminders":    input.CheckInReminders,
			"sms_notifications":     input.SMSNotifications,
		}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update notification settings")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification settings updated"})
}
