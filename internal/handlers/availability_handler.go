package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexagenda/booking-api/internal/middleware"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/timezone"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type CreateSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *AvailabilityHandler) List(c *gin.Context) {
	profileID := c.MustGet(middleware.ContextLawyerProfileID).(uint)

	var slots []models.AvailabilitySlot
	if err := h.db.
		Where("lawyer_profile_id = ?", profileID).
		Order("starts_at ASC").
		Find(&slots).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_slots"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

func (h *AvailabilityHandler) Create(c *gin.Context) {
	profileID := c.MustGet(middleware.ContextLawyerProfileID).(uint)

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var profile models.LawyerProfile
	if err := h.db.First(&profile, profileID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile_not_found"})
		return
	}

	startsAt, err := parseDateTimeInProfile(&profile, req.Date, req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date_or_time"})
		return
	}

	if !startsAt.After(timezone.NowIn(profile.Timezone)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot_in_the_past"})
		return
	}

	var count int64
	h.db.Model(&models.AvailabilitySlot{}).
		Where("lawyer_profile_id = ? AND starts_at = ?", profileID, startsAt).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "slot_already_exists"})
		return
	}

	slot := models.AvailabilitySlot{
		LawyerProfileID: profileID,
		StartsAt:        startsAt,
	}

	if err := h.db.Create(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_slot"})
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func (h *AvailabilityHandler) Delete(c *gin.Context) {
	profileID := c.MustGet(middleware.ContextLawyerProfileID).(uint)
	id := c.Param("id")

	var slot models.AvailabilitySlot
	if err := h.db.
		Where("id = ? AND lawyer_profile_id = ?", id, profileID).
		First(&slot).Error; err != nil {

		c.JSON(http.StatusNotFound, gin.H{"error": "slot_not_found"})
		return
	}

	// A booked slot belongs to its active appointment; cancel that first.
	if slot.Booked {
		c.JSON(http.StatusConflict, gin.H{"error": "slot_is_booked"})
		return
	}

	if err := h.db.Delete(&slot).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_slot"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
