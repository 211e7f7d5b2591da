package booking

import (
	"context"
	"errors"
	"time"

	"github.com/lexagenda/booking-api/internal/models"
)

// ErrNotFound is returned by lookups when the row does not exist. Any other
// error from a lookup is a storage failure and must not be presented as a
// missing record.
var ErrNotFound = errors.New("record not found")

// ListFilter scopes appointment reads. Exactly one of ClientID or
// LawyerProfileID is set by the handler, per the requester's role.
type ListFilter struct {
	ClientID        *uint
	LawyerProfileID *uint

	Status string
	From   *time.Time
	To     *time.Time

	// Query is matched case-insensitively against client notes, the lawyer's
	// display name and the service name.
	Query string

	Page  int
	Limit int
}

type Repository interface {
	// -------- Lawyer / Service --------
	GetLawyerProfile(
		ctx context.Context,
		id uint,
	) (*models.LawyerProfile, error)

	GetService(
		ctx context.Context,
		serviceID uint,
	) (*models.Service, error)

	// -------- Availability --------
	GetSlot(
		ctx context.Context,
		slotID uint,
	) (*models.AvailabilitySlot, error)

	// -------- Appointment (create / conflict) --------

	// FindConflict returns an active appointment for the exact
	// (lawyer, date, time) tuple, or nil when the tuple is free.
	FindConflict(
		ctx context.Context,
		lawyerProfileID uint,
		date string,
		timeOfDay string,
	) (*models.Appointment, error)

	// ReserveAndCreate inserts the appointment and, when it references an
	// availability slot, flips the slot to booked, both inside one
	// transaction. Competing callers for the same tuple or slot receive
	// slot_taken / slot_already_booked; no intermediate state is visible.
	ReserveAndCreate(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateAppointment persists a status transition. Implementations reload
	// the row under lock and re-run CanTransition against the stored status,
	// so a concurrent transition surfaces as the matching business error
	// instead of being overwritten.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ReleaseAndUpdate is UpdateAppointment plus freeing the referenced
	// availability slot (if any), as one atomic unit. Used by every
	// transition out of the active statuses: cancel, complete, expiry.
	ReleaseAndUpdate(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Reads --------
	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, int64, error)

	ListStalePending(
		ctx context.Context,
		createdBefore time.Time,
	) ([]models.Appointment, error)
}
