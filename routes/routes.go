package routes

import (
	"kennelpro-backend/config"
	"kennelpro-backend/controllers"
	"kennelpro-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"https://app.kennelpro.digital",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Owner routes
		owners := api.Group("/owners")
		{
			owners.POST("", controllers.CreateOwner)
			owners.GET("", controllers.GetOwners)
			owners.GET("/:id", controllers.GetOwner)
			owners.PUT("/:id", controllers.UpdateOwner)
			owners.DELETE("/:id", controllers.DeleteOwner)
		}

		// Pet routes
		pets := api.Group("/pets")
		{
			pets.POST("", controllers.CreatePet)
			pets.GET("", controllers.GetPets)
			pets.GET("/:id", controllers.GetPet)
			pets.PUT("/:id", controllers.UpdatePet)
			pets.DELETE("/:id", controllers.DeletePet)
		}

		// Kennel unit routes
		units := api.Group("/units")
		{
			units.POST("", controllers.CreateKennelUnit)
			units.GET("", controllers.GetKennelUnits)
			units.PUT("/:id", controllers.UpdateKennelUnit)
			units.DELETE("/:id", controllers.ArchiveKennelUnit)
		}

		// Catalog routes
		catalog := api.Group("/catalog")
		{
			catalog.POST("", controllers.CreateCatalogItem)
			catalog.GET("", controllers.GetCatalogItems)
			catalog.GET("/:id", controllers.GetCatalogItem)
			catalog.PUT("/:id", controllers.UpdateCatalogItem)
			catalog.DELETE("/:id", controllers.DeleteCatalogItem)
		}

		// Availability
		api.GET("/availability", controllers.GetAvailability)

		// Reservation routes
		reservations := api.Group("/reservations")
		{
			reservations.POST("", controllers.CreateReservation)
			reservations.GET("", controllers.GetReservations)
			reservations.GET("/:id", controllers.GetReservation)
			reservations.PATCH("/:id", controllers.UpdateReservation)
			reservations.POST("/:id/confirm", controllers.ConfirmReservation)
			reservations.POST("/:id/check-in", controllers.CheckInReservation)
			reservations.POST("/:id/check-out", controllers.CheckOutReservation)
			reservations.POST("/:id/cancel", controllers.CancelReservation)
			reservations.PUT("/:id/segments", controllers.UpdateSegments)
			reservations.PUT("/:id/line-items", controllers.UpdateLineItems)
			reservations.POST("/:id/estimate", controllers.CreateEstimate)
			reservations.POST("/:id/invoice", controllers.CreateInvoice)
		}

		// Estimate routes
		estimates := api.Group("/estimates")
		{
			estimates.GET("/:id", controllers.GetEstimate)
			estimates.PATCH("/:id", controllers.UpdateEstimate)
			estimates.POST("/:id/accept", controllers.AcceptEstimate)
		}

		// Invoice routes
		invoices := api.Group("/invoices")
		{
			invoices.GET("", controllers.GetInvoices)
			invoices.GET("/:id", controllers.GetInvoice)
			invoices.GET("/:id/payments", controllers.GetInvoicePayments)
		}

		// Payment routes
		api.POST("/payments", controllers.RecordPayment)

		// Point of sale
		api.POST("/pos/checkout", controllers.POSCheckout)

		// Reports routes
		reportController := controllers.ReportController{}
		api.GET("/reports", reportController.GetReportAnalytics)

		// Dashboard routes
		api.GET("/dashboard", controllers.GetDashboardOverview)

		// Settings routes
		profile := api.Group("/profile")
		{
			profile.GET("", controllers.GetProfile)
			profile.PUT("/update-facility", controllers.UpdateProfile)
			profile.PUT("/update-hours", controllers.UpdateOperatingHours)
			profile.PUT("/update-billing", controllers.UpdateBillingSettings)
			profile.PUT("/update-notifications", controllers.UpdateNotificationSettings)
		}

		// Staff routes
		staff := api.Group("/staff")
		{
			staff.GET("", controllers.GetStaff)
			staff.POST("", controllers.CreateStaff)
			staff.PUT("/:id", controllers.UpdateStaff)
		}
	}

	return r
}
