package commands

import (
	"context"
	"strings"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

type BookingDataValidator struct {
	blockList shared.BlockList
	window    shared.BookingWindow
	validate  *validator.Validate
}

func NewBookingDataValidator(blockList shared.BlockList, window shared.BookingWindow) *BookingDataValidator {
	return &BookingDataValidator{
		blockList: blockList,
		window:    window,
		validate:  validator.New(),
	}
}

// Validate parses the raw request against the booking form of the event type for the given view.
func (v *BookingDataValidator) Validate(raw RawBookingRequest, et *eventtype.EventType, view eventtype.View) (*ValidatedBookingData, error) {
	var verrs ValidationErrors

	start, err := time.Parse(time.RFC3339, raw.Start)
	if err != nil {
		verrs.add("start", "must be an RFC3339 timestamp")
	}
	var end time.Time
	if raw.End == "" {
		end = start.Add(time.Duration(et.Length) * time.Minute)
	} else if end, err = time.Parse(time.RFC3339, raw.End); err != nil {
		verrs.add("end", "must be an RFC3339 timestamp")
	}

	if raw.TimeZone == "" {
		verrs.add("timeZone", "is required")
	} else if _, err := time.LoadLocation(raw.TimeZone); err != nil {
		verrs.add("timeZone", "is not a known time zone")
	}
	if view == eventtype.ViewReschedule && raw.RescheduleUID == "" {
		verrs.add("rescheduleUid", "is required when rescheduling")
	}
	if raw.RecurringCount < 0 {
		verrs.add("recurringCount", "must not be negative")
	}

	responses, fieldErrs := newBookingSchema(v.validate, et, view).parse(raw.Responses)
	verrs = append(verrs, fieldErrs...)
	if len(verrs) > 0 {
		return nil, invalid(verrs)
	}

	language := raw.Language
	if language == "" {
		language = "en"
	}

	data := &ValidatedBookingData{
		View:                view,
		Start:               start.UTC(),
		End:                 end.UTC(),
		TimeZone:            raw.TimeZone,
		Language:            language,
		Name:                stringResponse(responses, eventtype.ResponseName),
		Email:               strings.ToLower(stringResponse(responses, eventtype.ResponseEmail)),
		AttendeePhoneNumber: stringResponse(responses, eventtype.ResponseAttendeePhone),
		Location:            stringResponse(responses, eventtype.ResponseLocation),
		Notes:               stringResponse(responses, eventtype.ResponseNotes),
		RescheduleReason:    stringResponse(responses, eventtype.ResponseRescheduleReason),
		SMSReminderNumber:   stringResponse(responses, eventtype.ResponseSMSReminder),
		Responses:           responses,
		Metadata:            raw.Metadata,
	}
	if guests, ok := responses[eventtype.ResponseGuests].([]string); ok {
		data.Guests = guests
	}
	return data, nil
}

// ValidateConstraints runs the block-list, booking-window and duration checks concurrently.
// The first failure wins.
func (v *BookingDataValidator) ValidateConstraints(ctx context.Context, scope shared.RequestScope, data *ValidatedBookingData, et *eventtype.EventType, caller CallerContext, hostTZ string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		blocked, err := v.blockList.IsBlocked(gctx, caller.UserID, data.Email)
		if err != nil {
			return errs.Wrap(err, "block list lookup")
		}
		if blocked {
			scope.Logger.Warn("booker email is blocked")
			return invalid(errs.Mark(errs.New("cannot use this email to create the booking"), ErrBookerEmailBlocked))
		}
		return nil
	})

	g.Go(func() error {
		if err := v.window.WithinBookingWindow(data.Start, data.TimeZone, et, hostTZ); err != nil {
			scope.Logger.Info("booking outside of bookable window", "start", data.Start, "error", err.Error())
			return invalid(err)
		}
		return nil
	})

	g.Go(func() error {
		if err := booking.ValidateEventLength(data.Start, data.End, et); err != nil {
			return invalid(err)
		}
		return nil
	})

	return g.Wait()
}

func stringResponse(responses map[string]any, key string) string {
	s, _ := responses[key].(string)
	return s
}
