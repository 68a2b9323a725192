//go:build unit

package commands_test

import (
	"context"
	"testing"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
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

type sentMessages struct {
	msgs []shared.NotificationMessage
}

func (s *sentMessages) scenarios() []shared.Scenario {
	out := make([]shared.Scenario, 0, len(s.msgs))
	for _, m := range s.msgs {
		out = append(out, m.Scenario)
	}
	return out
}

func recordingChannel(ctrl *gomock.Controller, sent *sentMessages) *sharedmock.MockNotificationChannel {
	ch := sharedmock.NewMockNotificationChannel(ctrl)
	ch.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg shared.NotificationMessage) error {
			sent.msgs = append(sent.msgs, msg)
			return nil
		}).AnyTimes()
	return ch
}

func notificationInput(et *eventtype.EventType) commands.NotificationInput {
	evt := newEvent("integrations:daily")
	return commands.NotificationInput{
		Event:                evt,
		Booking:              &booking.Booking{UID: "uid-1", Attendees: []booking.Attendee{{Email: "bob@example.com"}}},
		EventType:            et,
		BookerEmail:          "bob@example.com",
		Organizer:            evt.Organizer,
		IsFirstRecurringSlot: true,
	}
}

func TestNotificationDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	previous := calendarevent.Person{Name: "bob host", Email: "bob@example.com"}

	testCases := []struct {
		name  string
		et    *eventtype.EventType
		input func(*commands.NotificationInput)
		want  []shared.Scenario
		check func(t *testing.T, msgs []shared.NotificationMessage)
	}{
		{
			name: "confirmed personal booking",
			et:   builder.NewEventTypeBuilder().Build(),
			want: []shared.Scenario{shared.ScenarioScheduled},
			check: func(t *testing.T, msgs []shared.NotificationMessage) {
				require.Len(t, msgs[0].Recipients, 2)
				assert.Equal(t, "alice@example.com", msgs[0].Recipients[0].Email)
			},
		},
		{
			name:  "noEmail suppresses both sides of the standard email",
			et:    builder.NewEventTypeBuilder().Build(),
			input: func(in *commands.NotificationInput) { in.NoEmail = true },
			want:  []shared.Scenario{shared.ScenarioScheduled},
			check: func(t *testing.T, msgs []shared.NotificationMessage) {
				assert.True(t, msgs[0].SuppressAttendee)
				assert.True(t, msgs[0].SuppressHost)
			},
		},
		{
			name: "round robin team booking",
			et:   builder.NewEventTypeBuilder().RoundRobin(eventtype.Host{User: builder.NewUser(1, "alice")}).Build(),
			want: []shared.Scenario{shared.ScenarioRoundRobinScheduled},
		},
		{
			name:  "requires confirmation on a team event",
			et:    builder.NewEventTypeBuilder().RoundRobin(eventtype.Host{User: builder.NewUser(1, "alice")}).Build(),
			input: func(in *commands.NotificationInput) { in.RequiresConfirmation = true },
			want:  []shared.Scenario{shared.ScenarioOrganizerRequest, shared.ScenarioAttendeeRequest},
		},
		{
			name: "requires confirmation without attendee email",
			et:   builder.NewEventTypeBuilder().Build(),
			input: func(in *commands.NotificationInput) {
				in.RequiresConfirmation = true
				in.NoEmail = true
			},
			want: nil,
		},
		{
			name:  "reschedule with the same organizer",
			et:    builder.NewEventTypeBuilder().Build(),
			input: func(in *commands.NotificationInput) { in.IsRescheduling = true },
			want:  []shared.Scenario{shared.ScenarioRescheduled},
		},
		{
			name: "round robin reschedule to another host",
			et:   builder.NewEventTypeBuilder().RoundRobin(eventtype.Host{User: builder.NewUser(1, "alice")}).Build(),
			input: func(in *commands.NotificationInput) {
				in.IsRescheduling = true
				in.ChangedOrganizer = true
				in.PreviousOrganizer = &previous
			},
			want: []shared.Scenario{shared.ScenarioRoundRobinRescheduled, shared.ScenarioRoundRobinCancelled},
			check: func(t *testing.T, msgs []shared.NotificationMessage) {
				assert.Equal(t, "bob@example.com", msgs[1].Recipients[0].Email)
			},
		},
		{
			name: "new event workflow replaces the host email",
			et: builder.NewEventTypeBuilder().With(func(et *eventtype.EventType) {
				et.Workflows = []eventtype.Workflow{{ID: 1, Trigger: eventtype.TriggerNewEvent, Steps: []eventtype.WorkflowStep{{ID: 1, Action: eventtype.ActionEmailHost}}}}
			}).Build(),
			want: []shared.Scenario{shared.ScenarioScheduled},
			check: func(t *testing.T, msgs []shared.NotificationMessage) {
				assert.True(t, msgs[0].SuppressHost)
				assert.False(t, msgs[0].SuppressAttendee)
			},
		},
		{
			name: "seated booking owned by another attendee",
			et:   builder.NewEventTypeBuilder().Build(),
			input: func(in *commands.NotificationInput) {
				in.Booking.Attendees = []booking.Attendee{{Email: "first@example.com"}, {Email: "bob@example.com"}}
			},
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			sent := &sentMessages{}
			reminders := sharedmock.NewMockReminderScheduler(ctrl)
			reminders.EXPECT().ScheduleWorkflowReminders(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
			reminders.EXPECT().ScheduleMandatoryReminder(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			in := notificationInput(tc.et)
			if tc.input != nil {
				tc.input(&in)
			}
			commands.NewNotificationDispatcher(recordingChannel(ctrl, sent), reminders).Dispatch(ctx, testScope(), in)

			assert.Equal(t, tc.want, nilIfEmpty(sent.scenarios()))
			if tc.check != nil {
				tc.check(t, sent.msgs)
			}
		})
	}
}

func nilIfEmpty(s []shared.Scenario) []shared.Scenario {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestNotificationDispatcher_Reminders(t *testing.T) {
	ctx := context.Background()
	withWorkflow := builder.NewEventTypeBuilder().With(func(et *eventtype.EventType) {
		et.Workflows = []eventtype.Workflow{{ID: 3, Trigger: eventtype.TriggerBeforeEvent, OffsetMinutes: 60,
			Steps: []eventtype.WorkflowStep{{ID: 4, Action: eventtype.ActionEmailAttendee}}}}
	}).Build()

	t.Run("first recurring slot schedules workflow and mandatory reminders", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reminders := sharedmock.NewMockReminderScheduler(ctrl)
		reminders.EXPECT().ScheduleWorkflowReminders(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req shared.WorkflowReminderRequest) error {
				assert.Equal(t, "uid-1", req.BookingUID)
				assert.True(t, req.IsFirstRecurringEvent)
				assert.Len(t, req.Workflows, 1)
				return nil
			})
		reminders.EXPECT().ScheduleMandatoryReminder(gomock.Any(), gomock.Any()).Return(errs.New("redis down"))

		commands.NewNotificationDispatcher(recordingChannel(ctrl, &sentMessages{}), reminders).
			Dispatch(ctx, testScope(), notificationInput(withWorkflow))
	})

	t.Run("later recurring slots schedule nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reminders := sharedmock.NewMockReminderScheduler(ctrl)
		in := notificationInput(withWorkflow)
		in.IsFirstRecurringSlot = false

		commands.NewNotificationDispatcher(recordingChannel(ctrl, &sentMessages{}), reminders).Dispatch(ctx, testScope(), in)
	})

	t.Run("channel failure does not stop reminders", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		channel := sharedmock.NewMockNotificationChannel(ctrl)
		channel.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errs.New("broker unavailable"))
		reminders := sharedmock.NewMockReminderScheduler(ctrl)
		reminders.EXPECT().ScheduleWorkflowReminders(gomock.Any(), gomock.Any()).Return(nil)
		reminders.EXPECT().ScheduleMandatoryReminder(gomock.Any(), gomock.Any()).Return(nil)

		commands.NewNotificationDispatcher(channel, reminders).Dispatch(ctx, testScope(), notificationInput(withWorkflow))
	})

	t.Run("dry run does nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		in := notificationInput(withWorkflow)
		in.DryRun = true

		commands.NewNotificationDispatcher(sharedmock.NewMockNotificationChannel(ctrl), sharedmock.NewMockReminderScheduler(ctrl)).
			Dispatch(ctx, testScope(), in)
	})
}
