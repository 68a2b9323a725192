package queries

import (
	"context"
	"time"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"
)

var ErrBookingNotFound = errs.New("booking not found")

type AttendeeView struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"time_zone"`
	Locale   string `json:"locale,omitempty"`
}

type ReferenceView struct {
	Type               string `json:"type"`
	UID                string `json:"uid"`
	MeetingURL         string `json:"meeting_url,omitempty"`
	ExternalCalendarID string `json:"external_calendar_id,omitempty"`
}

type BookingView struct {
	ID             int64           `json:"id"`
	UID            string          `json:"uid"`
	EventTypeID    *int64          `json:"event_type_id,omitempty"`
	UserID         *int64          `json:"user_id,omitempty"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	StartTime      time.Time       `json:"start_time"`
	EndTime        time.Time       `json:"end_time"`
	Status         string          `json:"status"`
	Location       string          `json:"location,omitempty"`
	ICalUID        string          `json:"ical_uid"`
	FromReschedule string          `json:"from_reschedule,omitempty"`
	Rescheduled    bool            `json:"rescheduled"`
	Attendees      []AttendeeView  `json:"attendees"`
	References     []ReferenceView `json:"references"`
	CreatedAt      time.Time       `json:"created_at"`
}

type BookingListItem struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

type BookingViewStore interface {
	FindViewByUID(ctx context.Context, uid string) (*BookingView, error)
	FindByUserFirstPage(ctx context.Context, userID int64, limit int32) ([]*BookingListItem, error)
	FindByUserKeyset(ctx context.Context, userID int64, lastStart time.Time, lastID int64, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByUID(ctx context.Context, uid string) (*BookingView, error)
	ListByUser(ctx context.Context, userID int64, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type bookingQueriesImpl struct {
	store BookingViewStore
}

func NewBookingQueries(store BookingViewStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByUID(ctx context.Context, uid string) (*BookingView, error) {
	v, err := q.store.FindViewByUID(ctx, uid)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return v, nil
}

// ListByUser pages through the organizer's bookings ordered by start time.
func (q *bookingQueriesImpl) ListByUser(ctx context.Context, userID int64, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*BookingListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByUserFirstPage(ctx, userID, int32(limit+1))
	} else {
		lastStart, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByUserKeyset(ctx, userID, lastStart, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.StartTime, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
