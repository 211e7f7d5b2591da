package models

import "time"

// AvailabilitySlot is a discrete bookable time unit published by a lawyer.
// Booked is flipped only inside the reservation / release transactions.
type AvailabilitySlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LawyerProfileID uint          `gorm:"index;not null" json:"lawyer_profile_id"`
	LawyerProfile   LawyerProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	StartsAt time.Time `gorm:"index;not null" json:"starts_at"`
	Booked   bool      `gorm:"default:false" json:"booked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
