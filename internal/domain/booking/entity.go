package booking

import (
	"time"

	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

// Cancel transitions to cancelled and records the reason on the canceller's
// own notes field. Authorization: only the owning client or assigned lawyer.
func Cancel(ap *models.Appointment, byUserID uint, lawyerUserID uint, reason string, now time.Time) error {
	if byUserID != ap.ClientID && byUserID != lawyerUserID {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now

	if reason != "" {
		if byUserID == ap.ClientID {
			ap.ClientNotes = reason
		} else {
			ap.LawyerNotes = reason
		}
	}
	return nil
}

// Complete is lawyer-only and requires a confirmed appointment.
func Complete(ap *models.Appointment, byUserID uint, lawyerUserID uint, notes string, now time.Time) error {
	if byUserID != lawyerUserID {
		return httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now

	if notes != "" {
		ap.LawyerNotes = notes
	}
	return nil
}
