package commands

import (
	"strings"

	"booking-orchestrator/internal/pkg/errs"
)

var (
	// client faults
	ErrBookingValidation          = errs.New("booking request is invalid")
	ErrBookerEmailBlocked         = errs.New("booker email is blocked")
	ErrEventTypeNotFound          = errs.New("event type not found")
	ErrRescheduleTargetNotFound   = errs.New("booking to reschedule not found")
	ErrEventTypeUsersNotFound     = errs.New("event type has no hosts")
	ErrBookingConflict            = errs.New("booking conflict")
	ErrNoAvailableUsers           = errs.New("no available users found")
	ErrRoundRobinHostsUnavailable = errs.New("round robin hosts unavailable for booking")
	ErrIdempotencyKeyReused       = errs.New("idempotency key reused with a different request")
	ErrIdempotencyInProgress      = errs.New("idempotency key is held by a request in progress")

	ErrBookingNotFound = errs.New("booking not found")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors carries per-field failures of a booking request.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, FieldError{Field: field, Message: msg})
}

func invalid(err error) error {
	return errs.Mark(err, ErrBookingValidation)
}
