package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

const insertBookingSQL = `
INSERT INTO bookings (
    uid, event_type_id, user_id, title, description, start_time, end_time, status, location,
    responses, metadata, ical_uid, ical_sequence, from_reschedule, recurring_event_id,
    sms_reminder_number, creation_source
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
RETURNING id, created_at`

const insertAttendeeSQL = `
INSERT INTO attendees (booking_id, name, email, time_zone, locale, phone_number)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertReferenceSQL = `
INSERT INTO booking_references (
    booking_id, type, uid, meeting_id, meeting_password, meeting_url, external_calendar_id,
    credential_id, delegation_credential_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const markRescheduledSQL = `
UPDATE bookings
SET status = 'cancelled',
    rescheduled = true,
    metadata = metadata || jsonb_build_object('rescheduledBy', $2::text),
    updated_at = now()
WHERE uid = $1 AND status <> 'cancelled'`

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

// Create inserts the booking row with its attendees and references. Run it inside a
// transaction: the children are written in one batch after the parent.
func (r *BookingRepository) Create(ctx context.Context, p shared.CreateBookingParams) (*booking.Booking, error) {
	var (
		id        int64
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, insertBookingSQL,
		p.UID,
		pgconv.Int8PtrToPgtype(p.EventTypeID),
		p.UserID,
		p.Title,
		p.Description,
		p.StartTime,
		p.EndTime,
		string(p.Status),
		p.Location,
		jsonOrEmpty(p.Responses),
		jsonOrEmpty(p.Metadata),
		p.ICalUID,
		p.ICalSequence,
		pgconv.TextOrNull(p.FromReschedule),
		pgconv.TextOrNull(p.RecurringEventID),
		pgconv.TextOrNull(p.SMSReminderNumber),
		string(p.CreationSource),
	).Scan(&id, &createdAt)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to create booking", err)
	}

	batch := &pgx.Batch{}
	for _, a := range p.Attendees {
		batch.Queue(insertAttendeeSQL, id, a.Name, a.Email, a.TimeZone, a.Locale, pgconv.TextOrNull(a.PhoneNumber))
	}
	for _, ref := range p.References {
		batch.Queue(insertReferenceSQL,
			id,
			ref.Type,
			ref.UID,
			pgconv.TextOrNull(ref.MeetingID),
			pgconv.TextOrNull(ref.MeetingPassword),
			pgconv.TextOrNull(ref.MeetingURL),
			pgconv.TextOrNull(ref.ExternalCalendarID),
			pgconv.Int8PtrToPgtype(ref.CredentialID),
			ref.DelegationCredentialID,
		)
	}
	if batch.Len() > 0 {
		if err := r.sendBatch(ctx, batch); err != nil {
			return nil, infra.WrapRepoErr("failed to create booking attendees and references", err)
		}
	}

	userID := p.UserID
	return &booking.Booking{
		ID:                id,
		UID:               p.UID,
		EventTypeID:       p.EventTypeID,
		UserID:            &userID,
		Title:             p.Title,
		Description:       p.Description,
		StartTime:         p.StartTime,
		EndTime:           p.EndTime,
		Status:            p.Status,
		Location:          p.Location,
		Attendees:         p.Attendees,
		References:        p.References,
		Responses:         p.Responses,
		Metadata:          p.Metadata,
		ICalUID:           p.ICalUID,
		ICalSequence:      p.ICalSequence,
		FromReschedule:    p.FromReschedule,
		RecurringEventID:  p.RecurringEventID,
		SMSReminderNumber: p.SMSReminderNumber,
		CreationSource:    p.CreationSource,
		CreatedAt:         createdAt,
	}, nil
}

func (r *BookingRepository) MarkRescheduled(ctx context.Context, originalUID, rescheduledBy string) error {
	tag, err := r.db.Exec(ctx, markRescheduledSQL, originalUID, rescheduledBy)
	if err != nil {
		return infra.WrapRepoErr("failed to mark booking rescheduled", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking to reschedule not found", nil, infra.KindNotFound)
	}
	return nil
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

func (r *BookingRepository) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	sender, ok := r.db.(batchSender)
	if !ok {
		for _, q := range batch.QueuedQueries {
			if _, err := r.db.Exec(ctx, q.SQL, q.Arguments...); err != nil {
				return err
			}
		}
		return nil
	}
	results := sender.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}

func jsonOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
