package commands

import (
	"context"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingInput struct {
	UID             string
	Organizer       eventtype.User
	EventType       *eventtype.EventType
	Data            *ValidatedBookingData
	Event           calendarevent.Event
	References      []booking.Reference
	VideoCallURL    string
	OriginalBooking *booking.Booking
	CreationSource  booking.CreationSource
	Confirmed       bool
	IdempotencyKey  *uuid.UUID
	DryRun          bool
}

type BookingCreator struct {
	uow shared.UnitOfWork
}

func NewBookingCreator(uow shared.UnitOfWork) *BookingCreator {
	return &BookingCreator{uow: uow}
}

// Create persists the booking and, on reschedule, retires the original in the same transaction.
// A duplicate key from the store becomes ErrBookingConflict.
func (c *BookingCreator) Create(ctx context.Context, scope shared.RequestScope, in CreateBookingInput) (*booking.Booking, error) {
	if in.DryRun {
		return nil, nil
	}

	params := bookingParams(in)

	var created *booking.Booking
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().Create(ctx, params)
		if err != nil {
			return err
		}
		if in.OriginalBooking != nil {
			if err := tx.Bookings().MarkRescheduled(ctx, in.OriginalBooking.UID, in.UID); err != nil {
				return err
			}
		}
		if in.IdempotencyKey != nil {
			if err := tx.Idempotency().MarkCompleted(ctx, *in.IdempotencyKey, b.UID); err != nil {
				return err
			}
		}
		created = b
		return nil
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			scope.Logger.Warn("booking uid already taken", "uid", in.UID)
			return nil, errs.Mark(errs.Wrapf(err, "create booking %s", in.UID), ErrBookingConflict)
		}
		if in.OriginalBooking != nil && infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRescheduleTargetNotFound)
		}
		return nil, errs.Wrap(err, "persist booking")
	}

	scope.Logger.Info("booking persisted", "uid", created.UID, "booking_id", created.ID, "status", created.Status)
	return created, nil
}

func bookingParams(in CreateBookingInput) shared.CreateBookingParams {
	evt := in.Event
	status := booking.StatusAccepted
	if !in.Confirmed {
		status = booking.StatusPending
	}

	attendees := make([]booking.Attendee, 0, len(evt.Attendees))
	for _, a := range evt.Attendees {
		attendees = append(attendees, booking.Attendee{
			Name:        a.Name,
			Email:       a.Email,
			TimeZone:    a.TimeZone,
			Locale:      a.Locale,
			PhoneNumber: a.PhoneNumber,
		})
	}

	metadata := make(map[string]any, len(in.Data.Metadata)+1)
	for k, v := range in.Data.Metadata {
		metadata[k] = v
	}
	if in.VideoCallURL != "" {
		metadata["videoCallUrl"] = in.VideoCallURL
	}

	params := shared.CreateBookingParams{
		UID:               in.UID,
		UserID:            in.Organizer.ID,
		Title:             evt.Title,
		Description:       evt.AdditionalNotes,
		StartTime:         evt.StartTime,
		EndTime:           evt.EndTime,
		Status:            status,
		Location:          evt.Location,
		Attendees:         attendees,
		References:        in.References,
		Responses:         in.Data.Responses,
		Metadata:          metadata,
		ICalUID:           evt.ICalUID,
		RecurringEventID:  evt.RecurringEventID,
		SMSReminderNumber: in.Data.SMSReminderNumber,
		CreationSource:    in.CreationSource,
	}
	if in.EventType != nil && in.EventType.ID != 0 {
		id := in.EventType.ID
		params.EventTypeID = &id
	}
	if orig := in.OriginalBooking; orig != nil {
		params.FromReschedule = orig.UID
		params.ICalSequence = orig.ICalSequence + 1
		if params.ICalUID == "" {
			params.ICalUID = orig.ICalUID
		}
	}
	if params.ICalUID == "" {
		params.ICalUID = calendarevent.ICalUIDFor(in.UID)
	}
	return params
}
