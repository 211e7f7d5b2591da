package db

import (
	"log"
	"time"

	"github.com/lexagenda/booking-api/internal/config"
	"github.com/lexagenda/booking-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.LawyerProfile{},
		&models.Service{},
		&models.AvailabilitySlot{},
		&models.Appointment{},
		&models.Notification{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// At most one active appointment per (lawyer, date, time). The partial
	// unique index is the backstop behind the FOR UPDATE pre-check: a racing
	// insert that slips past the check fails at commit with 23505.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_active_tuple
        ON appointments (lawyer_profile_id, appointment_date, appointment_time)
        WHERE status IN ('pending', 'confirmed')
    `)

	db.Exec(`
        UPDATE lawyer_profiles
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.DefaultTimezone)

	return db
}
