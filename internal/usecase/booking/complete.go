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
	"github.com/lexagenda/booking-api/internal/timezone"
)

type CompleteAppointment struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewCompleteAppointment(
	repo domain.Repository,
	notify *notify.Dispatcher,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	byUserID uint,
	notes string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	now := timezone.NowIn(ap.LawyerProfile.Timezone)
	if err := domain.Complete(ap, byUserID, ap.LawyerProfile.UserID, notes, now); err != nil {
		return nil, err
	}

	// Completed no longer holds the slot; release it with the status write.
	if err := uc.repo.ReleaseAndUpdate(ctx, ap); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  ap.ClientID,
		Type:    models.NotifAppointmentCompleted,
		Title:   "Appointment completed",
		Message: fmt.Sprintf("Your appointment on %s at %s was marked completed.", ap.AppointmentDate, ap.AppointmentTime),
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &byUserID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
