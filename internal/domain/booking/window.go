package booking

import (
	"time"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
)

var (
	ErrOutOfBounds        = errs.New("booking time is outside the bookable window")
	ErrInvalidEventLength = errs.New("invalid event length")
	ErrUnknownTimeZone    = errs.New("unknown time zone")
)

type WindowChecker struct {
	clock clock.Clock
}

func NewWindowChecker(c clock.Clock) *WindowChecker {
	return &WindowChecker{clock: c}
}

// WithinBookingWindow checks the minimum notice and the rolling or fixed-range period of the event type.
// Day boundaries are evaluated in hostTZ.
func (w *WindowChecker) WithinBookingWindow(start time.Time, bookerTZ string, et *eventtype.EventType, hostTZ string) error {
	loc, err := loadLocation(hostTZ)
	if err != nil {
		return err
	}
	if _, err := loadLocation(bookerTZ); err != nil {
		return err
	}

	now := w.clock.Now()
	earliest := now.Add(time.Duration(et.MinimumBookingNotice) * time.Minute)
	if start.Before(earliest) {
		return errs.Mark(errs.Newf("start %s is before earliest bookable time %s", start.Format(time.RFC3339), earliest.Format(time.RFC3339)), ErrOutOfBounds)
	}

	switch et.PeriodType {
	case eventtype.PeriodRolling:
		if et.PeriodDays <= 0 {
			return nil
		}
		last := endOfDay(now.In(loc).AddDate(0, 0, et.PeriodDays))
		if start.After(last) {
			return errs.Mark(errs.Newf("start is more than %d days ahead", et.PeriodDays), ErrOutOfBounds)
		}
	case eventtype.PeriodRange:
		if et.PeriodStartDate != nil && start.Before(startOfDay(et.PeriodStartDate.In(loc))) {
			return errs.Mark(errs.New("start is before the bookable range"), ErrOutOfBounds)
		}
		if et.PeriodEndDate != nil && start.After(endOfDay(et.PeriodEndDate.In(loc))) {
			return errs.Mark(errs.New("start is after the bookable range"), ErrOutOfBounds)
		}
	}
	return nil
}

// ValidateEventLength rejects durations the event type does not offer.
func ValidateEventLength(start, end time.Time, et *eventtype.EventType) error {
	if !end.After(start) {
		return errs.Mark(errs.New("end must be after start"), ErrInvalidEventLength)
	}
	minutes := end.Sub(start)
	if minutes%time.Minute != 0 || !et.AllowsDuration(int(minutes/time.Minute)) {
		return errs.Mark(errs.Newf("duration %s is not offered", minutes), ErrInvalidEventLength)
	}
	return nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "time zone %q", name), ErrUnknownTimeZone)
	}
	return loc, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
