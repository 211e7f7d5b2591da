package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/timezone"
)

// PublicHandler serves the unauthenticated discovery surface clients browse
// before booking.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	lawyerProfileID := c.Param("id")

	var profile models.LawyerProfile
	if err := h.db.First(&profile, lawyerProfileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lawyer_not_found"})
		return
	}

	var services []models.Service
	if err := h.db.
		Where("lawyer_profile_id = ? AND active = ?", profile.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {

		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *PublicHandler) ListAvailability(c *gin.Context) {
	lawyerProfileID := c.Param("id")

	var profile models.LawyerProfile
	if err := h.db.First(&profile, lawyerProfileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lawyer_not_found"})
		return
	}

	q := h.db.
		Where("lawyer_profile_id = ? AND booked = ?", profile.ID, false).
		Where("starts_at > ?", timezone.NowIn(profile.Timezone))

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := parseDateInProfile(&profile, dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date"})
			return
		}
		q = q.Where("starts_at >= ? AND starts_at < ?", day, day.Add(24*time.Hour))
	}

	var slots []models.AvailabilitySlot
	if err := q.Order("starts_at ASC").Find(&slots).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_availability"})
		return
	}

	c.JSON(http.StatusOK, slots)
}
