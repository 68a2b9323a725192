package readstore

import (
	"context"
	"encoding/json"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"
	"booking-orchestrator/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const getBookingByUIDSQL = `
SELECT id, uid, event_type_id, user_id, title, description, start_time, end_time, status, location,
       responses, metadata, ical_uid, ical_sequence, from_reschedule, rescheduled, recurring_event_id,
       sms_reminder_number, creation_source, created_at, updated_at
FROM bookings
WHERE uid = $1`

const getAttendeesSQL = `
SELECT name, email, time_zone, locale, phone_number
FROM attendees
WHERE booking_id = $1
ORDER BY id`

const getReferencesSQL = `
SELECT type, uid, meeting_id, meeting_password, meeting_url, external_calendar_id, credential_id,
       delegation_credential_id, deleted
FROM booking_references
WHERE booking_id = $1
ORDER BY id`

const getBookingsByUserFirstPageSQL = `
SELECT id, uid, title, start_time, end_time, status
FROM bookings
WHERE user_id = $1
ORDER BY start_time, id
LIMIT $2`

const getBookingsByUserKeysetSQL = `
SELECT id, uid, title, start_time, end_time, status
FROM bookings
WHERE user_id = $1 AND (start_time, id) > ($2, $3)
ORDER BY start_time, id
LIMIT $4`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByUID(ctx context.Context, uid string) (*booking.Booking, error) {
	b, err := r.findBooking(ctx, uid)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by uid", err)
	}

	rows, err := r.db.Query(ctx, getAttendeesSQL, b.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking attendees", err)
	}
	b.Attendees, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (booking.Attendee, error) {
		var (
			a     booking.Attendee
			phone pgtype.Text
		)
		err := row.Scan(&a.Name, &a.Email, &a.TimeZone, &a.Locale, &phone)
		a.PhoneNumber = phone.String
		return a, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking attendees", err)
	}

	rows, err = r.db.Query(ctx, getReferencesSQL, b.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find booking references", err)
	}
	b.References, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (booking.Reference, error) {
		var (
			ref                                booking.Reference
			meetingID, password, url, calendar pgtype.Text
			credentialID                       pgtype.Int8
			delegation                         pgtype.Text
		)
		err := row.Scan(&ref.Type, &ref.UID, &meetingID, &password, &url, &calendar, &credentialID, &delegation, &ref.Deleted)
		ref.MeetingID = meetingID.String
		ref.MeetingPassword = password.String
		ref.MeetingURL = url.String
		ref.ExternalCalendarID = calendar.String
		ref.CredentialID = pgconv.Int8PtrFromPgtype(credentialID)
		ref.DelegationCredentialID = pgconv.StringPtrFromPgtype(delegation)
		return ref, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan booking references", err)
	}
	return b, nil
}

func (r *BookingReadStore) findBooking(ctx context.Context, uid string) (*booking.Booking, error) {
	var (
		b                                      booking.Booking
		eventTypeID, userID                    pgtype.Int8
		status, source                         string
		responses, metadata                    []byte
		fromReschedule, recurring, smsReminder pgtype.Text
		updatedAt                              pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getBookingByUIDSQL, uid).Scan(
		&b.ID, &b.UID, &eventTypeID, &userID, &b.Title, &b.Description, &b.StartTime, &b.EndTime, &status, &b.Location,
		&responses, &metadata, &b.ICalUID, &b.ICalSequence, &fromReschedule, &b.Rescheduled, &recurring,
		&smsReminder, &source, &b.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.EventTypeID = pgconv.Int8PtrFromPgtype(eventTypeID)
	b.UserID = pgconv.Int8PtrFromPgtype(userID)
	b.Status = booking.Status(status)
	b.CreationSource = booking.CreationSource(source)
	b.FromReschedule = fromReschedule.String
	b.RecurringEventID = recurring.String
	b.SMSReminderNumber = smsReminder.String
	b.UpdatedAt = pgconv.TimePtrFromPgtype(updatedAt)
	if err := json.Unmarshal(responses, &b.Responses); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metadata, &b.Metadata); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingReadStore) FindViewByUID(ctx context.Context, uid string) (*queries.BookingView, error) {
	b, err := r.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return toBookingView(b), nil
}

func toBookingView(b *booking.Booking) *queries.BookingView {
	v := &queries.BookingView{
		ID:             b.ID,
		UID:            b.UID,
		EventTypeID:    b.EventTypeID,
		UserID:         b.UserID,
		Title:          b.Title,
		Description:    b.Description,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		Location:       b.Location,
		ICalUID:        b.ICalUID,
		FromReschedule: b.FromReschedule,
		Rescheduled:    b.Rescheduled,
		Attendees:      make([]queries.AttendeeView, 0, len(b.Attendees)),
		References:     make([]queries.ReferenceView, 0, len(b.References)),
		CreatedAt:      b.CreatedAt,
	}
	for _, a := range b.Attendees {
		v.Attendees = append(v.Attendees, queries.AttendeeView{Name: a.Name, Email: a.Email, TimeZone: a.TimeZone, Locale: a.Locale})
	}
	for _, ref := range b.References {
		if ref.Deleted {
			continue
		}
		v.References = append(v.References, queries.ReferenceView{
			Type:               ref.Type,
			UID:                ref.UID,
			MeetingURL:         ref.MeetingURL,
			ExternalCalendarID: ref.ExternalCalendarID,
		})
	}
	return v
}

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, userID int64, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, getBookingsByUserFirstPageSQL, userID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings first page", err)
	}
	items, err := pgx.CollectRows(rows, scanBookingListItem)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan bookings first page", err)
	}
	return items, nil
}

func (r *BookingReadStore) FindByUserKeyset(ctx context.Context, userID int64, lastStart time.Time, lastID int64, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, getBookingsByUserKeysetSQL, userID, lastStart, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find bookings keyset page", err)
	}
	items, err := pgx.CollectRows(rows, scanBookingListItem)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan bookings keyset page", err)
	}
	return items, nil
}

func scanBookingListItem(row pgx.CollectableRow) (*queries.BookingListItem, error) {
	var item queries.BookingListItem
	err := row.Scan(&item.ID, &item.UID, &item.Title, &item.StartTime, &item.EndTime, &item.Status)
	return &item, err
}
