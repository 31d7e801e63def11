package controllers

import (
	"errors"
	"net/http"

	"kennelpro-backend/services"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Package-level services shared by all handlers, wired once at startup.
var (
	Events         *services.EventBus
	ReservationSvc *services.ReservationService
	BillingSvc     *services.BillingService
)

func Setup(db *gorm.DB) {
	Events = services.NewEventBus()
	ReservationSvc = services.NewReservationService(db, Events)
	BillingSvc = services.NewBillingService(db)
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidSegment),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidAmount):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrSegmentConflict),
		errors.Is(err, services.ErrEstimateLocked):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
