package handlers

import (
	"time"

	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/timezone"
)

// All date/time input is interpreted in the lawyer's timezone.

func locationFromProfile(profile *models.LawyerProfile) *time.Location {
	if profile != nil {
		return timezone.Location(profile.Timezone)
	}
	return timezone.Location("")
}

func parseDateInProfile(profile *models.LawyerProfile, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromProfile(profile),
	)
}

func parseDateTimeInProfile(
	profile *models.LawyerProfile,
	dateStr string,
	timeStr string,
) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02 15:04",
		dateStr+" "+timeStr,
		locationFromProfile(profile),
	)
}
