package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexagenda/booking-api/internal/middleware"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/timezone"
)

type LawyerProfileHandler struct {
	db *gorm.DB
}

func NewLawyerProfileHandler(db *gorm.DB) *LawyerProfileHandler {
	return &LawyerProfileHandler{db: db}
}

type UpdateLawyerProfileRequest struct {
	Specialization *string  `json:"specialization"`
	HourlyRate     *float64 `json:"hourly_rate"`
	Timezone       *string  `json:"timezone"`
}

func (h *LawyerProfileHandler) Get(c *gin.Context) {
	profileID := c.MustGet(middleware.ContextLawyerProfileID).(uint)

	var profile models.LawyerProfile
	if err := h.db.Preload("User").First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_not_found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *LawyerProfileHandler) Update(c *gin.Context) {
	profileID := c.MustGet(middleware.ContextLawyerProfileID).(uint)

	var req UpdateLawyerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var profile models.LawyerProfile
	if err := h.db.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile_not_found"})
		return
	}

	if req.Specialization != nil {
		profile.Specialization = *req.Specialization
	}
	if req.HourlyRate != nil {
		profile.HourlyRate = *req.HourlyRate
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_timezone"})
			return
		}
		profile.Timezone = *req.Timezone
	}

	if err := h.db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
