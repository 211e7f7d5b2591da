package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/lexagenda/booking-api/internal/audit"
	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/notify"
)

type ConfirmAppointment struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewConfirmAppointment(
	repo domain.Repository,
	notify *notify.Dispatcher,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	byUserID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	if byUserID != ap.LawyerProfile.UserID {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := domain.Confirm(ap); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  ap.ClientID,
		Type:    models.NotifAppointmentConfirmed,
		Title:   "Appointment confirmed",
		Message: fmt.Sprintf("Your appointment on %s at %s has been confirmed.", ap.AppointmentDate, ap.AppointmentTime),
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &byUserID,
		Action:   "appointment_confirmed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
