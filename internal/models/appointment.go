package models

import "time"

const (
	MeetingInPerson = "in-person"
	MeetingVirtual  = "virtual"
	MeetingPhone    = "phone"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint `gorm:"index;not null" json:"client_id"`
	Client   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`

	LawyerProfileID uint          `gorm:"index;not null" json:"lawyer_profile_id"`
	LawyerProfile   LawyerProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"lawyer_profile"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	AvailabilitySlotID *uint             `json:"availability_slot_id"`
	AvailabilitySlot   *AvailabilitySlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	// Date/Time are the booking tuple ("2006-01-02", "15:04"); StartsAt is the
	// same instant resolved in the lawyer's timezone, kept for range queries.
	AppointmentDate string    `gorm:"size:10;not null" json:"appointment_date"`
	AppointmentTime string    `gorm:"size:5;not null" json:"appointment_time"`
	StartsAt        time.Time `gorm:"index" json:"starts_at"`

	Status      string `gorm:"size:20;default:'pending'" json:"status"`
	MeetingType string `gorm:"size:20;default:'in-person'" json:"meeting_type"`

	ClientNotes string `gorm:"size:500" json:"client_notes"`
	LawyerNotes string `gorm:"size:500" json:"lawyer_notes"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
