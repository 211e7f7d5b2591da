package models

import "time"

type LawyerProfile struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Specialization string  `gorm:"size:100" json:"specialization"`
	HourlyRate     float64 `json:"hourly_rate"`
	Verified       bool    `gorm:"default:false" json:"verified"`
	Timezone       string  `gorm:"size:50" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
