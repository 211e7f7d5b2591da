package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// mapNotFound keeps missing rows distinct from storage failures.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Lawyer / Service
// --------------------------------------------------

func (r *BookingGormRepository) GetLawyerProfile(
	ctx context.Context,
	id uint,
) (*models.LawyerProfile, error) {

	var profile models.LawyerProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &profile, nil
}

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, serviceID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &service, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	slotID uint,
) (*models.AvailabilitySlot, error) {

	var slot models.AvailabilitySlot
	if err := r.db.WithContext(ctx).First(&slot, slotID).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &slot, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) FindConflict(
	ctx context.Context,
	lawyerProfileID uint,
	date string,
	timeOfDay string,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"lawyer_profile_id = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
			lawyerProfileID, date, timeOfDay, domain.ActiveStatuses,
		).
		First(&ap).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// ReserveAndCreate runs the race-sensitive part of booking as one
// transaction: conflict recheck under FOR UPDATE, slot flip, insert. The
// partial unique index on the active tuple catches anything that still
// races past, so losers always see slot_taken.
func (r *BookingGormRepository) ReserveAndCreate(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"lawyer_profile_id = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
				ap.LawyerProfileID, ap.AppointmentDate, ap.AppointmentTime, domain.ActiveStatuses,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		if ap.AvailabilitySlotID != nil {
			var slot models.AvailabilitySlot
			if err := tx.
				Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&slot, *ap.AvailabilitySlotID).Error; err != nil {
				return httperr.ErrBusiness(httperr.CodeSlotNotFound)
			}

			if slot.Booked {
				return httperr.ErrBusiness(httperr.CodeSlotAlreadyBooked)
			}

			if err := tx.
				Model(&slot).
				Update("booked", true).Error; err != nil {
				return err
			}
		}

		return tx.Create(ap).Error
	})

	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
		return err
	}

	return nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("LawyerProfile").
		Preload("LawyerProfile.User").
		Preload("Service").
		First(&ap, appointmentID).Error; err != nil {
		return nil, mapNotFound(err)
	}

	return &ap, nil
}

// saveTransition reacquires the row FOR UPDATE and re-runs the transition
// rule against the status actually stored before saving. A transition that
// lost a race gets the matching business error; a terminal status is never
// overwritten.
func saveTransition(tx *gorm.DB, ap *models.Appointment) error {
	var current models.Appointment
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&current, ap.ID).Error; err != nil {
		return mapNotFound(err)
	}

	if err := domain.CanTransition(
		domain.Status(current.Status),
		domain.Status(ap.Status),
	); err != nil {
		return err
	}

	return tx.Omit(clause.Associations).Save(ap).Error
}

func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveTransition(tx, ap)
	})
}

func (r *BookingGormRepository) ReleaseAndUpdate(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := saveTransition(tx, ap); err != nil {
			return err
		}

		if ap.AvailabilitySlotID != nil {
			if err := tx.
				Model(&models.AvailabilitySlot{}).
				Where("id = ?", *ap.AvailabilitySlotID).
				Update("booked", false).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *BookingGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if filter.ClientID != nil {
		q = q.Where("appointments.client_id = ?", *filter.ClientID)
	}
	if filter.LawyerProfileID != nil {
		q = q.Where("appointments.lawyer_profile_id = ?", *filter.LawyerProfileID)
	}
	if filter.Status != "" {
		q = q.Where("appointments.status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("appointments.starts_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("appointments.starts_at < ?", *filter.To)
	}

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.
			Joins("JOIN services ON services.id = appointments.service_id").
			Joins("JOIN lawyer_profiles ON lawyer_profiles.id = appointments.lawyer_profile_id").
			Joins("JOIN users ON users.id = lawyer_profiles.user_id").
			Where(
				"appointments.client_notes ILIKE ? OR users.name ILIKE ? OR services.name ILIKE ?",
				like, like, like,
			)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var aps []models.Appointment
	if err := q.
		Preload("Client").
		Preload("LawyerProfile").
		Preload("LawyerProfile.User").
		Preload("Service").
		Order("appointments.starts_at ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&aps).Error; err != nil {
		return nil, 0, err
	}

	return aps, total, nil
}

func (r *BookingGormRepository) ListStalePending(
	ctx context.Context,
	createdBefore time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("LawyerProfile").
		Where("status = ? AND created_at < ?", string(domain.StatusPending), createdBefore).
		Order("created_at ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
