package main

import (
	"fmt"
	"log"
	"os"

	"kennelpro-backend/config"
	"kennelpro-backend/controllers"
	"kennelpro-backend/models"
	"kennelpro-backend/routes"
	"kennelpro-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Facility{},
		&models.User{},
		&models.Owner{},
		&models.Pet{},
		&models.KennelUnit{},
		&models.CatalogItem{},
		&models.Reservation{},
		&models.ReservationSegment{},
		&models.ReservationLineItem{},
		&models.Estimate{},
		&models.EstimateLineItem{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Payment{},
		&models.AuditLog{},
		&models.NotificationLog{},
	)
}

func main() {
	controllers.Setup(config.DB)

	var notifier services.Notifier
	if os.Getenv("TWILIO_ACCOUNT_SID") != "" {
		notifier = services.NewTwilioNotifier()
	} else {
		notifier = &services.LogNotifier{}
	}
	notify := services.NewNotifyService(config.DB, notifier)
	notify.SubscribeTo(controllers.Events)

	scheduler := services.StartScheduler(config.DB, notify)
	defer scheduler.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r := routes.SetupRouter()
	printRoutes(r)
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
