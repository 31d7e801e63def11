package services

import (
	"log"
	"time"

	"kennelpro-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the daily housekeeping jobs: check-in reminders and
// estimate expiry. Runs every day at 9 AM.
func StartScheduler(db *gorm.DB, notify *NotifyService) *cron.Cron {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		ExpireEstimates(db)
		notify.SendCheckInReminders()
	})

	c.Start()
	log.Println("Scheduler started")
	return c
}

// ExpireEstimates flips sent estimates past their validity window to expired.
// Draft, accepted and declined estimates are left alone.
func ExpireEstimates(db *gorm.DB) {
	result := db.Model(&models.Estimate{}).
		Where("status = ? AND valid_until IS NOT NULL AND valid_until < ?",
			models.EstimateStatusSent, time.Now().UTC()).
		Update("status", models.EstimateStatusExpired)
	if result.Error != nil {
		log.Printf("Failed to expire estimates: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Expired %d estimates", result.RowsAffected)
	}
}
