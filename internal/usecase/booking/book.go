package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lexagenda/booking-api/internal/audit"
	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/notify"
	"github.com/lexagenda/booking-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	ClientID uint

	LawyerProfileID uint
	ServiceID       uint

	Date string
	Time string

	ClientNotes        string
	MeetingType        string
	AvailabilitySlotID *uint
}

// ======================================================
// USE CASE
// ======================================================

// BookAppointment is the reserve-and-create path: every precondition is
// checked before any write, and the write itself (appointment + slot flip)
// commits atomically in the repository.
type BookAppointment struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewBookAppointment(
	repo domain.Repository,
	notify *notify.Dispatcher,
	audit *audit.Dispatcher,
) *BookAppointment {
	return &BookAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Required fields
	// --------------------------------------------------
	if in.LawyerProfileID == 0 || in.ServiceID == 0 || in.Date == "" || in.Time == "" {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	// --------------------------------------------------
	// 2. Meeting type
	// --------------------------------------------------
	meetingType := in.MeetingType
	if meetingType == "" {
		meetingType = models.MeetingInPerson
	}
	switch meetingType {
	case models.MeetingInPerson, models.MeetingVirtual, models.MeetingPhone:
	default:
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	// --------------------------------------------------
	// 3. Lawyer + date/time in the lawyer's timezone
	// --------------------------------------------------
	profile, err := uc.repo.GetLawyerProfile(ctx, in.LawyerProfileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	startsAt, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(profile.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	if !startsAt.After(timezone.NowIn(profile.Timezone)) {
		return nil, httperr.ErrBusiness(httperr.CodePastDate)
	}

	// --------------------------------------------------
	// 4. Service must exist, be active, belong to the lawyer
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
		}
		return nil, err
	}
	if !service.Active {
		return nil, httperr.ErrBusiness(httperr.CodeServiceInactive)
	}
	if service.LawyerProfileID != in.LawyerProfileID {
		return nil, httperr.ErrBusiness(httperr.CodeServiceMismatch)
	}

	// --------------------------------------------------
	// 5. Fail fast on a visible conflict
	// --------------------------------------------------
	// The repository rechecks under lock inside the commit transaction; this
	// pre-check only spares losers the round trip.
	existing, err := uc.repo.FindConflict(ctx, in.LawyerProfileID, in.Date, in.Time)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	// --------------------------------------------------
	// 6. Optional availability slot
	// --------------------------------------------------
	if in.AvailabilitySlotID != nil {
		slot, err := uc.repo.GetSlot(ctx, *in.AvailabilitySlotID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound)
			}
			return nil, err
		}
		if slot.LawyerProfileID != in.LawyerProfileID {
			return nil, httperr.ErrBusiness(httperr.CodeSlotNotFound)
		}
		if slot.Booked {
			return nil, httperr.ErrBusiness(httperr.CodeSlotAlreadyBooked)
		}
	}

	// --------------------------------------------------
	// 7. Atomic commit: appointment + slot flip
	// --------------------------------------------------
	ap := &models.Appointment{
		ClientID:           in.ClientID,
		LawyerProfileID:    in.LawyerProfileID,
		ServiceID:          service.ID,
		AvailabilitySlotID: in.AvailabilitySlotID,
		AppointmentDate:    in.Date,
		AppointmentTime:    in.Time,
		StartsAt:           startsAt,
		Status:             string(domain.InitialStatus()),
		MeetingType:        meetingType,
		ClientNotes:        in.ClientNotes,
	}

	if err := uc.repo.ReserveAndCreate(ctx, ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 8. Notifications + audit (post-commit, once per transition)
	// --------------------------------------------------
	when := fmt.Sprintf("%s at %s", in.Date, in.Time)

	uc.notify.Dispatch(notify.Event{
		UserID:  in.ClientID,
		Type:    models.NotifAppointmentBooked,
		Title:   "Appointment booked",
		Message: fmt.Sprintf("Your appointment for %s on %s is pending confirmation.", service.Name, when),
	})

	uc.notify.Dispatch(notify.Event{
		UserID:  profile.UserID,
		Type:    models.NotifAppointmentRequest,
		Title:   "New appointment request",
		Message: fmt.Sprintf("You have a new booking request for %s on %s.", service.Name, when),
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	// Denormalized summaries for the response.
	full, err := uc.repo.GetAppointment(ctx, ap.ID)
	if err != nil {
		return ap, nil
	}
	return full, nil
}
