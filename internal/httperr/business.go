package httperr

import "errors"

// Stable machine-readable codes for domain failures. Handlers map these onto
// HTTP statuses; nothing below the handler layer knows about HTTP.
const (
	CodeInvalidRequest    = "invalid_request"
	CodePastDate          = "past_date"
	CodeServiceNotFound   = "service_not_found"
	CodeServiceInactive   = "service_inactive"
	CodeServiceMismatch   = "service_mismatch"
	CodeSlotTaken         = "slot_taken"
	CodeSlotNotFound      = "slot_not_found"
	CodeSlotAlreadyBooked = "slot_already_booked"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeAlreadyCancelled  = "already_cancelled"
	CodeAlreadyCompleted  = "already_completed"
	CodeInvalidTransition = "invalid_transition"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode extracts the code, or "" when err is not a BusinessError.
func BusinessCode(err error) string {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
