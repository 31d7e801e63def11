package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"kennelpro-backend/config"
	"kennelpro-backend/models"
	"kennelpro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email           string       `json:"email" binding:"required,email"`
	Phone           string       `json:"phone" binding:"required"`
	Name            string       `json:"name" binding:"required"`
	Password        string       `json:"password" binding:"required,min=8"`
	FacilityName    string       `json:"facilityName" binding:"required"`
	FacilityAddress string       `json:"facilityAddress"`
	OperatingHours  models.JSONB `json:"operatingHours"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// Register creates the facility and its first manager account
func Register(c *gin.Context) {
	var input RegisterInput

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Check if email or phone already exists
	var existingUser models.User
	result := config.DB.Where("email = ? OR phone = ?", input.Email, input.Phone).First(&existingUser)

	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email or phone already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	facility := models.Facility{
		ID:             uuid.New(),
		Name:           input.FacilityName,
		Address:        input.FacilityAddress,
		Phone:          input.Phone,
		OperatingHours: input.OperatingHours,
	}
	if facility.OperatingHours == nil {
		facility.OperatingHours = models.JSONB{
			"monday":    map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
			"tuesday":   map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
			"wednesday": map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
			"thursday":  map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
			"friday":    map[string]interface{}{"open": "07:00", "close": "19:00", "closed": false},
			"saturday":  map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
			"sunday":    map[string]interface{}{"open": "08:00", "close": "17:00", "closed": false},
		}
	}

	newUser := models.User{
		Email:      input.Email,
		Phone:      input.Phone,
		Name:       input.Name,
		Password:   input.Password, // Will be hashed in BeforeCreate hook
		Role:       "manager",
		FacilityID: facility.ID,
	}

	tx := config.DB.Begin()
	if err := tx.Create(&facility).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create facility")
		return
	}
	if err := tx.Create(&newUser).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}
	tx.Commit()

	token, err := utils.GenerateToken(newUser.ID.String(), facility.ID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user": gin.H{
			"id":         newUser.ID,
			"email":      newUser.Email,
			"name":       newUser.Name,
			"role":       newUser.Role,
			"facilityId": facility.ID,
		},
	})
}

// Login authenticates by email or phone
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	identifier := strings.TrimSpace(input.Identifier)

	var user models.User
	if err := config.DB.Where("email = ? OR phone = ?", identifier, identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !user.IsActive {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID.String(), user.FacilityID.String())
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"name":       user.Name,
			"role":       user.Role,
			"facilityId": user.FacilityID,
		},
	})
}

// Me returns the authenticated user
func Me(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.Preload("Facility").First(&user, "id = ?", userID).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       user.Name,
		"phone":      user.Phone,
		"role":       user.Role,
		"facilityId": user.FacilityID,
		"facility":   user.Facility.Name,
	})
}
