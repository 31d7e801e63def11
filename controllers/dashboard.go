package controllers

import (
	"net/http"
	"time"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DashboardOverview struct {
	ArrivalsToday       int64 `json:"arrivalsToday"`
	DeparturesToday     int64 `json:"departuresToday"`
	GuestsInHouse       int64 `json:"guestsInHouse"`
	UnitsTotal          int64 `json:"unitsTotal"`
	UnitsOccupied       int64 `json:"unitsOccupied"`
	PendingRequests     int64 `json:"pendingRequests"`
	MonthlyRevenueCents int64 `json:"monthlyRevenueCents"`
	OutstandingCents    int64 `json:"outstandingCents"`
}

// GetDashboardOverview summarizes today's operations and this month's money
func GetDashboardOverview(c *gin.Context) {
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

	now := time.Now().UTC()
	dayStart := utils.BeginningOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var overview DashboardOverview

	config.DB.Model(&models.Reservation{}).
		Where("facility_id = ? AND status = ? AND start_at >= ? AND start_at < ?",
			facilityUUID, models.StatusConfirmed, dayStart, dayEnd).
		Count(&overview.ArrivalsToday)

	config.DB.Model(&models.Reservation{}).
		Where("facility_id = ? AND status = ? AND end_at >= ? AND end_at < ?",
			facilityUUID, models.StatusCheckedIn, dayStart, dayEnd).
		Count(&overview.DeparturesToday)

	config.DB.Model(&models.Reservation{}).
		Where("facility_id = ? AND status = ?", facilityUUID, models.StatusCheckedIn).
		Count(&overview.GuestsInHouse)

	config.DB.Model(&models.KennelUnit{}).
		Where("facility_id = ? AND status = ? AND is_archived = ?",
			facilityUUID, models.UnitStatusActive, false).
		Count(&overview.UnitsTotal)

	config.DB.Model(&models.ReservationSegment{}).
		Distinct("kennel_unit_id").
		Joins("JOIN reservations ON reservations.id = reservation_segments.reservation_id").
		Where("reservations.facility_id = ? AND reservations.status IN ? AND reservation_segments.start_at < ? AND reservation_segments.end_at > ?",
			facilityUUID, models.ActiveStatuses, dayEnd, dayStart).
		Count(&overview.UnitsOccupied)

	config.DB.Model(&models.Reservation{}).
		Where("facility_id = ? AND status = ?", facilityUUID, models.StatusRequested).
		Count(&overview.PendingRequests)

	config.DB.Model(&models.Payment{}).
		Where("facility_id = ? AND created_at >= ?", facilityUUID, firstOfMonth).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&overview.MonthlyRevenueCents)

	config.DB.Model(&models.Invoice{}).
		Where("facility_id = ? AND balance_due_cents > 0", facilityUUID).
		Select("COALESCE(SUM(balance_due_cents), 0)").
		Scan(&overview.OutstandingCents)

	c.JSON(http.StatusOK, overview)
}
