package booking

import "github.com/lexagenda/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the statuses that still hold a slot.
var ActiveStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transition rules
// ===============================

// pending -> confirmed -> completed
// pending | confirmed -> cancelled

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func CanCancel(current Status) error {
	switch current {
	case StatusCancelled:
		return httperr.ErrBusiness(httperr.CodeAlreadyCancelled)
	case StatusCompleted:
		return httperr.ErrBusiness(httperr.CodeAlreadyCompleted)
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

// CanTransition re-validates a move to target against the status actually
// stored. Repositories run it again after reacquiring the row under lock, so
// a transition that lost a race never overwrites a terminal status.
func CanTransition(current, target Status) error {
	switch target {
	case StatusConfirmed:
		return CanConfirm(current)
	case StatusCancelled:
		return CanCancel(current)
	case StatusCompleted:
		return CanComplete(current)
	}
	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

func InitialStatus() Status {
	return StatusPending
}
