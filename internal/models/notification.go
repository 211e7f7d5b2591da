package models

import "time"

const (
	NotifAppointmentBooked    = "appointment_booked"
	NotifAppointmentRequest   = "appointment_request"
	NotifAppointmentConfirmed = "appointment_confirmed"
	NotifAppointmentCancelled = "appointment_cancelled"
	NotifAppointmentCompleted = "appointment_completed"
	NotifAppointmentExpired   = "appointment_expired"
)

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Title   string `gorm:"size:100;not null" json:"title"`
	Message string `gorm:"size:500" json:"message"`
	Read    bool   `gorm:"default:false" json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
