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

type CancelAppointment struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	notify *notify.Dispatcher,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		notify: notify,
		audit:  audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	byUserID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	lawyerUserID := ap.LawyerProfile.UserID

	now := timezone.NowIn(ap.LawyerProfile.Timezone)
	if err := domain.Cancel(ap, byUserID, lawyerUserID, reason, now); err != nil {
		return nil, err
	}

	// Cancellation releases the held slot in the same transaction.
	if err := uc.repo.ReleaseAndUpdate(ctx, ap); err != nil {
		return nil, err
	}

	// Notify the counterparty only.
	counterparty := lawyerUserID
	if byUserID == lawyerUserID {
		counterparty = ap.ClientID
	}

	uc.notify.Dispatch(notify.Event{
		UserID:  counterparty,
		Type:    models.NotifAppointmentCancelled,
		Title:   "Appointment cancelled",
		Message: fmt.Sprintf("The appointment on %s at %s was cancelled.", ap.AppointmentDate, ap.AppointmentTime),
	})

	uc.audit.Dispatch(audit.Event{
		UserID:   &byUserID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
