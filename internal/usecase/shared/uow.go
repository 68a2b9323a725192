package shared

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/usecase/readmodel"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Notifications() NotificationRepository
	Idempotency() IdempotencyRepository
}

type CreateBookingParams struct {
	UID               string
	EventTypeID       *int64
	UserID            int64
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	Status            booking.Status
	Location          string
	Attendees         []booking.Attendee
	References        []booking.Reference
	Responses         map[string]any
	Metadata          map[string]any
	ICalUID           string
	ICalSequence      int
	FromReschedule    string
	RecurringEventID  string
	SMSReminderNumber string
	CreationSource    booking.CreationSource
}

type BookingRepository interface {
	Create(ctx context.Context, params CreateBookingParams) (*booking.Booking, error)
	// MarkRescheduled cancels the superseded booking.
	MarkRescheduled(ctx context.Context, originalUID string, rescheduledBy string) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string) error
}

type IdempotencyRepository interface {
	// TryInsert claims key unless an unexpired claim already exists; claimed reports whether
	// this call took it.
	TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (claimed bool, err error)
	Get(ctx context.Context, key uuid.UUID) (*readmodel.IdempotencyKey, error)
	MarkCompleted(ctx context.Context, key uuid.UUID, bookingUID string) error
	// Release drops a claim that is still processing.
	Release(ctx context.Context, key uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
