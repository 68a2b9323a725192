//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/builder"
	sharedmock "booking-orchestrator/tests/mock/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var slotStart = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

func testScope() shared.RequestScope {
	return shared.NewRequestScope(nil, 11, "bob@example.com", false)
}

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var verrs commands.ValidationErrors
	require.True(t, errs.As(err, &verrs), "expected ValidationErrors, got %v", err)
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestBookingDataValidator_Validate(t *testing.T) {
	v := commands.NewBookingDataValidator(nil, nil)

	t.Run("normalizes a valid request", func(t *testing.T) {
		raw := builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
			r.End = ""
			r.Language = ""
			r.Responses["guests"] = []any{"carol@example.com"}
			r.Responses["location"] = map[string]any{"value": "phone", "optionValue": "+4930123456"}
			r.Responses["utm_source"] = "newsletter"
		}).Build()

		data, err := v.Validate(raw, builder.NewEventTypeBuilder().Build(), eventtype.ViewBooking)

		require.NoError(t, err)
		assert.Equal(t, slotStart, data.Start)
		assert.Equal(t, slotStart.Add(30*time.Minute), data.End)
		assert.Equal(t, "bob@example.com", data.Email)
		assert.Equal(t, "Bob Booker", data.Name)
		assert.Equal(t, "en", data.Language)
		assert.Equal(t, []string{"carol@example.com"}, data.Guests)
		assert.Equal(t, "+4930123456", data.Location)
		assert.Equal(t, "newsletter", data.Responses["utm_source"])
	})

	t.Run("name given as first and last name", func(t *testing.T) {
		raw := builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
			r.Responses["name"] = map[string]any{"firstName": "Bob", "lastName": "Booker"}
		}).Build()

		data, err := v.Validate(raw, builder.NewEventTypeBuilder().Build(), eventtype.ViewBooking)

		require.NoError(t, err)
		assert.Equal(t, "Bob Booker", data.Name)
	})

	testCases := []struct {
		name       string
		mutate     func(*commands.RawBookingRequest)
		etMutate   func(*eventtype.EventType)
		view       eventtype.View
		wantFields []string
	}{
		{
			name:       "missing name",
			mutate:     func(r *commands.RawBookingRequest) { delete(r.Responses, "name") },
			wantFields: []string{"name"},
		},
		{
			name:       "invalid email",
			mutate:     func(r *commands.RawBookingRequest) { r.Responses["email"] = "not-an-email" },
			wantFields: []string{"email"},
		},
		{
			name:       "unparseable start",
			mutate:     func(r *commands.RawBookingRequest) { r.Start = "tomorrow" },
			wantFields: []string{"start"},
		},
		{
			name:       "unknown time zone",
			mutate:     func(r *commands.RawBookingRequest) { r.TimeZone = "Nowhere/Land" },
			wantFields: []string{"timeZone"},
		},
		{
			name:       "reschedule view needs a uid",
			view:       eventtype.ViewReschedule,
			wantFields: []string{"rescheduleUid"},
		},
		{
			name:       "guest list with a bad email",
			mutate:     func(r *commands.RawBookingRequest) { r.Responses["guests"] = []any{"ok@example.com", "nope"} },
			wantFields: []string{"guests"},
		},
		{
			name: "select outside options and missing required custom field",
			mutate: func(r *commands.RawBookingRequest) {
				r.Responses["company_size"] = "huge"
			},
			etMutate: func(et *eventtype.EventType) {
				et.BookingFields = []eventtype.BookingField{
					{Name: "name", Type: eventtype.FieldName},
					{Name: "email", Type: eventtype.FieldEmail},
					{Name: "company_size", Type: eventtype.FieldSelect, Options: []string{"1-10", "11-50"}},
					{Name: "budget", Type: eventtype.FieldNumber, Required: true},
				}
			},
			wantFields: []string{"company_size", "budget"},
		},
		{
			name: "hidden required field may be omitted",
			etMutate: func(et *eventtype.EventType) {
				et.BookingFields = []eventtype.BookingField{
					{Name: "ref", Type: eventtype.FieldText, Required: true, Hidden: true},
				}
			},
		},
		{
			name:   "text longer than max length",
			mutate: func(r *commands.RawBookingRequest) { r.Responses["notes"] = "0123456789ab" },
			etMutate: func(et *eventtype.EventType) {
				et.BookingFields = []eventtype.BookingField{
					{Name: "notes", Type: eventtype.FieldTextarea, MaxLength: 10},
				}
			},
			wantFields: []string{"notes"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rb := builder.NewBookingRequestBuilder(slotStart)
			if tc.mutate != nil {
				rb.With(tc.mutate)
			}
			eb := builder.NewEventTypeBuilder()
			if tc.etMutate != nil {
				eb.With(tc.etMutate)
			}
			view := tc.view
			if view == "" {
				view = eventtype.ViewBooking
			}

			data, err := v.Validate(rb.Build(), eb.Build(), view)

			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				assert.NotNil(t, data)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.Is(err, commands.ErrBookingValidation))
			assert.ElementsMatch(t, tc.wantFields, fieldsOf(t, err))
		})
	}
}

func TestBookingDataValidator_ValidateConstraints(t *testing.T) {
	ctx := context.Background()
	userID := int64(99)

	testCases := []struct {
		name      string
		end       time.Time
		setup     func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow)
		wantErr   bool
		wantMarks []error
	}{
		{
			name: "all checks pass",
			end:  slotStart.Add(30 * time.Minute),
			setup: func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow) {
				bl.EXPECT().IsBlocked(gomock.Any(), &userID, "bob@example.com").Return(false, nil)
				w.EXPECT().WithinBookingWindow(slotStart, "Europe/Berlin", gomock.Any(), "Asia/Tokyo").Return(nil)
			},
		},
		{
			name: "blocked booker",
			end:  slotStart.Add(30 * time.Minute),
			setup: func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow) {
				bl.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
				w.EXPECT().WithinBookingWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr:   true,
			wantMarks: []error{commands.ErrBookerEmailBlocked, commands.ErrBookingValidation},
		},
		{
			name: "outside booking window",
			end:  slotStart.Add(30 * time.Minute),
			setup: func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow) {
				bl.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
				w.EXPECT().WithinBookingWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(booking.ErrOutOfBounds)
			},
			wantErr:   true,
			wantMarks: []error{booking.ErrOutOfBounds, commands.ErrBookingValidation},
		},
		{
			name: "duration not offered",
			end:  slotStart.Add(50 * time.Minute),
			setup: func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow) {
				bl.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
				w.EXPECT().WithinBookingWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr:   true,
			wantMarks: []error{booking.ErrInvalidEventLength, commands.ErrBookingValidation},
		},
		{
			name: "block list lookup failure is not a validation error",
			end:  slotStart.Add(30 * time.Minute),
			setup: func(bl *sharedmock.MockBlockList, w *sharedmock.MockBookingWindow) {
				bl.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errs.New("connection reset"))
				w.EXPECT().WithinBookingWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			blockList := sharedmock.NewMockBlockList(ctrl)
			window := sharedmock.NewMockBookingWindow(ctrl)
			tc.setup(blockList, window)

			v := commands.NewBookingDataValidator(blockList, window)
			data := &commands.ValidatedBookingData{
				Start:    slotStart,
				End:      tc.end,
				TimeZone: "Europe/Berlin",
				Email:    "bob@example.com",
			}

			err := v.ValidateConstraints(ctx, testScope(), data, builder.NewEventTypeBuilder().Build(),
				commands.CallerContext{UserID: &userID}, "Asia/Tokyo")

			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, mark := range tc.wantMarks {
				assert.True(t, errs.Is(err, mark), "expected %v in %v", mark, err)
			}
			if len(tc.wantMarks) == 0 {
				assert.False(t, errs.Is(err, commands.ErrBookingValidation))
			}
		})
	}
}
