package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LawyerProfileID uint          `gorm:"index;not null" json:"lawyer_profile_id"`
	LawyerProfile   LawyerProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Description string  `gorm:"size:255" json:"description"`
	Price       float64 `json:"price"`
	DurationMin int     `gorm:"default:60" json:"duration_min"`
	Active      bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
