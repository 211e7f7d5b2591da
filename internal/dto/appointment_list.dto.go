package dto

import (
	"time"

	"github.com/lexagenda/booking-api/internal/models"
)

// AppointmentListItem is the denormalized read-side projection for list
// endpoints: flat summaries instead of nested preloaded records.
type AppointmentListItem struct {
	ID              uint      `json:"id"`
	AppointmentDate string    `json:"appointment_date"`
	AppointmentTime string    `json:"appointment_time"`
	StartsAt        time.Time `json:"starts_at"`
	Status          string    `json:"status"`
	MeetingType     string    `json:"meeting_type"`
	ClientName      string    `json:"client_name"`
	LawyerName      string    `json:"lawyer_name"`
	ServiceName     string    `json:"service_name"`
	ClientNotes     string    `json:"client_notes"`
}

func AppointmentListItemFrom(ap models.Appointment) AppointmentListItem {
	return AppointmentListItem{
		ID:              ap.ID,
		AppointmentDate: ap.AppointmentDate,
		AppointmentTime: ap.AppointmentTime,
		StartsAt:        ap.StartsAt,
		Status:          ap.Status,
		MeetingType:     ap.MeetingType,
		ClientName:      ap.Client.Name,
		LawyerName:      ap.LawyerProfile.User.Name,
		ServiceName:     ap.Service.Name,
		ClientNotes:     ap.ClientNotes,
	}
}
