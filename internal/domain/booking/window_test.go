//go:build unit

package booking_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func TestWithinBookingWindow(t *testing.T) {
	rangeStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rangeEnd := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name   string
		start  time.Time
		hostTZ string
		mutate func(*eventtype.EventType)
		errIs  error
	}{
		{
			name:  "inside minimum notice",
			start: now.Add(time.Hour),
			mutate: func(et *eventtype.EventType) {
				et.MinimumBookingNotice = 120
			},
			errIs: booking.ErrOutOfBounds,
		},
		{
			name:  "after minimum notice",
			start: now.Add(3 * time.Hour),
			mutate: func(et *eventtype.EventType) {
				et.MinimumBookingNotice = 120
			},
		},
		{
			name:  "rolling period last day is bookable",
			start: time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC),
			mutate: func(et *eventtype.EventType) {
				et.PeriodType = eventtype.PeriodRolling
				et.PeriodDays = 7
			},
		},
		{
			name:  "rolling period exceeded",
			start: time.Date(2026, 3, 10, 0, 30, 0, 0, time.UTC),
			mutate: func(et *eventtype.EventType) {
				et.PeriodType = eventtype.PeriodRolling
				et.PeriodDays = 7
			},
			errIs: booking.ErrOutOfBounds,
		},
		{
			name:   "rolling period day boundary follows host zone",
			start:  time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC),
			hostTZ: "Europe/Berlin",
			mutate: func(et *eventtype.EventType) {
				et.PeriodType = eventtype.PeriodRolling
				et.PeriodDays = 7
			},
			errIs: booking.ErrOutOfBounds,
		},
		{
			name:  "before fixed range",
			start: rangeStart.Add(-time.Hour),
			mutate: func(et *eventtype.EventType) {
				et.PeriodType = eventtype.PeriodRange
				et.PeriodStartDate = &rangeStart
				et.PeriodEndDate = &rangeEnd
			},
			errIs: booking.ErrOutOfBounds,
		},
		{
			name:  "last day of fixed range",
			start: rangeEnd.Add(20 * time.Hour),
			mutate: func(et *eventtype.EventType) {
				et.PeriodType = eventtype.PeriodRange
				et.PeriodStartDate = &rangeStart
				et.PeriodEndDate = &rangeEnd
			},
		},
		{
			name:   "unknown host time zone",
			start:  now.Add(24 * time.Hour),
			hostTZ: "Mars/Olympus",
			errIs:  booking.ErrUnknownTimeZone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewEventTypeBuilder()
			if tc.mutate != nil {
				b.With(tc.mutate)
			}
			checker := booking.NewWindowChecker(clock.NewFixedClock(now))

			err := checker.WithinBookingWindow(tc.start, "America/New_York", b.Build(), tc.hostTZ)

			if tc.errIs != nil {
				require.Error(t, err)
				assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateEventLength(t *testing.T) {
	start := now.Add(24 * time.Hour)

	testCases := []struct {
		name      string
		end       time.Time
		durations []int
		wantErr   bool
	}{
		{name: "matches length", end: start.Add(30 * time.Minute)},
		{name: "other length", end: start.Add(45 * time.Minute), wantErr: true},
		{name: "end before start", end: start.Add(-30 * time.Minute), wantErr: true},
		{name: "end equals start", end: start, wantErr: true},
		{name: "offered multiple duration", end: start.Add(60 * time.Minute), durations: []int{30, 60}},
		{name: "length not among multiple durations", end: start.Add(45 * time.Minute), durations: []int{30, 60}, wantErr: true},
		{name: "sub-minute duration", end: start.Add(30*time.Minute + time.Second), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			et := builder.NewEventTypeBuilder().With(func(et *eventtype.EventType) {
				et.MultipleDurations = tc.durations
			}).Build()

			err := booking.ValidateEventLength(start, tc.end, et)

			if tc.wantErr {
				assert.True(t, errs.Is(err, booking.ErrInvalidEventLength), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBooking_VideoReference(t *testing.T) {
	b := builder.NewStoredBooking("abc", 1, now)
	assert.Nil(t, b.VideoReference())

	b.References = []booking.Reference{
		{Type: "google_calendar", UID: "g1"},
		{Type: "zoom_video", UID: "z-old", Deleted: true},
		{Type: "zoom_video", UID: "z1", MeetingURL: "https://zoom.example/j/1"},
	}
	ref := b.VideoReference()
	require.NotNil(t, ref)
	assert.Equal(t, "z1", ref.UID)

	var nilBooking *booking.Booking
	assert.Nil(t, nilBooking.VideoReference())
	assert.Equal(t, int64(0), nilBooking.OrganizerID())
}
