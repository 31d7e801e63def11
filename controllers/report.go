// controllers/report.go
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

// ReportController handles all reporting functions
type ReportController struct{}

// AnalyticsSummary represents the Analytics data
type AnalyticsSummary struct {
	CurrentMonthRevenueCents   int64            `json:"currentMonthRevenueCents"`
	MonthGrowth                float64          `json:"monthGrowth"`
	CurrentQuarterRevenueCents int64            `json:"currentQuarterRevenueCents"`
	QuarterGrowth              float64          `json:"quarterGrowth"`
	CurrentYearRevenueCents    int64            `json:"currentYearRevenueCents"`
	YearGrowth                 float64          `json:"yearGrowth"`
	TopServices                []ServiceSummary `json:"topServices"`
	TopOwners                  []OwnerSummary   `json:"topOwners"`
	QuickStats                 QuickStatistics  `json:"quickStats"`
}

type ServiceSummary struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`
	RevenueCents int64  `json:"revenueCents"`
}

type OwnerSummary struct {
	Name       string `json:"name"`
	Visits     int    `json:"visits"`
	SpentCents int64  `json:"spentCents"`
}

type QuickStatistics struct {
	TotalOwners           int   `json:"totalOwners"`
	TotalInvoices         int   `json:"totalInvoices"`
	AvgInvoiceCents       int64 `json:"avgInvoiceCents"`
	TotalOutstandingCents int64 `json:"totalOutstandingCents"`
}

// GetReportAnalytics returns the complete analytics summary
func (rc *ReportController) GetReportAnalytics(c *gin.Context) {
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

	// Get current time
	now := time.Now()
	currentYear, currentMonth, _ := now.Date()
	currentLocation := now.Location()

	// Calculate date ranges
	firstOfMonth := time.Date(currentYear, currentMonth, 1, 0, 0, 0, 0, currentLocation)
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

	currentMonthRevenue, err := rc.getRevenue(facilityUUID, firstOfMonth, lastOfMonth)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get monthly revenue")
		return
	}

	lastMonthRevenue, err := rc.getRevenue(facilityUUID,
		firstOfMonth.AddDate(0, -1, 0),
		lastOfMonth.AddDate(0, -1, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last month revenue")
		return
	}

	currentQuarterRevenue, err := rc.getRevenue(facilityUUID,
		rc.getQuarterStart(now),
		rc.getQuarterEnd(now))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quarterly revenue")
		return
	}

	lastQuarterRevenue, err := rc.getRevenue(facilityUUID,
		rc.getQuarterStart(now).AddDate(0, -3, 0),
		rc.getQuarterEnd(now).AddDate(0, -3, 0))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last quarter revenue")
		return
	}

	currentYearRevenue, err := rc.getRevenue(facilityUUID,
		time.Date(currentYear, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get yearly revenue")
		return
	}

	lastYearRevenue, err := rc.getRevenue(facilityUUID,
		time.Date(currentYear-1, 1, 1, 0, 0, 0, 0, currentLocation),
		time.Date(currentYear-1, 12, 31, 23, 59, 59, 0, currentLocation))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get last year revenue")
		return
	}

	// Calculate growth percentages
	monthGrowth := rc.calculateGrowthPercentage(currentMonthRevenue, lastMonthRevenue)
	quarterGrowth := rc.calculateGrowthPercentage(currentQuarterRevenue, lastQuarterRevenue)
	yearGrowth := rc.calculateGrowthPercentage(currentYearRevenue, lastYearRevenue)

	topServices, err := rc.getTopServices(facilityUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top services")
		return
	}

	topOwners, err := rc.getTopOwners(facilityUUID, firstOfMonth, lastOfMonth, 4)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get top owners")
		return
	}

	quickStats, err := rc.getQuickStatistics(facilityUUID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to get quick statistics")
		return
	}

	summary := AnalyticsSummary{
		CurrentMonthRevenueCents:   currentMonthRevenue,
		MonthGrowth:                monthGrowth,
		CurrentQuarterRevenueCents: currentQuarterRevenue,
		QuarterGrowth:              quarterGrowth,
		CurrentYearRevenueCents:    currentYearRevenue,
		YearGrowth:                 yearGrowth,
		TopServices:                topServices,
		TopOwners:                  topOwners,
		QuickStats:                 quickStats,
	}

	c.JSON(http.StatusOK, summary)
}

// Helper functions for reports

func (rc *ReportController) getRevenue(facilityID uuid.UUID, start, end time.Time) (int64, error) {
	var total int64
	err := config.DB.Model(&models.Invoice{}).
		Where("facility_id = ? AND invoice_date BETWEEN ? AND ?", facilityID, start, end).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (rc *ReportController) getQuarterStart(date time.Time) time.Time {
	quarter := (int(date.Month())-1)/3 + 1
	startMonth := time.Month((quarter-1)*3 + 1)
	return time.Date(date.Year(), startMonth, 1, 0, 0, 0, 0, date.Location())
}

func (rc *ReportController) getQuarterEnd(date time.Time) time.Time {
	return rc.getQuarterStart(date).AddDate(0, 3, -1)
}

func (rc *ReportController) calculateGrowthPercentage(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (float64(current-previous) / float64(previous)) * 100
}

func (rc *ReportController) getTopServices(facilityID uuid.UUID, start, end time.Time, limit int) ([]ServiceSummary, error) {
	var services []ServiceSummary

	err := config.DB.Table("invoice_line_items").
		Select("invoice_line_items.description AS name, SUM(invoice_line_items.quantity) as count, SUM(invoice_line_items.amount_cents) as revenue_cents").
		Joins("JOIN invoices ON invoices.id = invoice_line_items.invoice_id").
		Where("invoices.facility_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL", facilityID, start, end).
		Group("invoice_line_items.description").
		Order("revenue_cents DESC").
		Limit(limit).
		Scan(&services).Error

	return services, err
}

func (rc *ReportController) getTopOwners(facilityID uuid.UUID, start, end time.Time, limit int) ([]OwnerSummary, error) {
	var owners []OwnerSummary

	err := config.DB.Table("invoices").
		Select("owners.name, COUNT(invoices.id) as visits, SUM(invoices.total_cents) as spent_cents").
		Joins("JOIN owners ON owners.id = invoices.owner_id").
		Where("invoices.facility_id = ? AND invoices.invoice_date BETWEEN ? AND ? AND invoices.deleted_at IS NULL AND owners.deleted_at IS NULL", facilityID, start, end).
		Group("owners.name").
		Order("spent_cents DESC").
		Limit(limit).
		Scan(&owners).Error

	return owners, err
}

func (rc *ReportController) getQuickStatistics(facilityID uuid.UUID) (QuickStatistics, error) {
	var stats QuickStatistics

	var totalOwners int64
	if err := config.DB.Model(&models.Owner{}).
		Where("facility_id = ? AND deleted_at IS NULL", facilityID).
		Count(&totalOwners).Error; err != nil {
		return stats, err
	}
	stats.TotalOwners = int(totalOwners)

	var totalInvoices int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("facility_id = ? AND deleted_at IS NULL", facilityID).
		Count(&totalInvoices).Error; err != nil {
		return stats, err
	}
	stats.TotalInvoices = int(totalInvoices)

	var totalRevenue int64
	if err := config.DB.Model(&models.Invoice{}).
		Where("facility_id = ? AND deleted_at IS NULL", facilityID).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return stats, err
	}
	if stats.TotalInvoices > 0 {
		stats.AvgInvoiceCents = totalRevenue / int64(stats.TotalInvoices)
	}

	if err := config.DB.Model(&models.Invoice{}).
		Where("facility_id = ? AND balance_due_cents > 0 AND deleted_at IS NULL", facilityID).
		Select("COALESCE(SUM(balance_due_cents), 0)").
		Scan(&stats.TotalOutstandingCents).Error; err != nil {
		return stats, err
	}

	return stats, nil
}
