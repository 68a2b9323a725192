package commands

import (
	"context"
	"strings"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/usecase/shared"
)

type NotificationInput struct {
	Event                calendarevent.Event
	Booking              *booking.Booking
	EventType            *eventtype.EventType
	BookerEmail          string
	Organizer            calendarevent.Person
	PreviousOrganizer    *calendarevent.Person
	IsRescheduling       bool
	ChangedOrganizer     bool
	RequiresConfirmation bool
	NoEmail              bool
	IsFirstRecurringSlot bool
	DryRun               bool
}

type NotificationDispatcher struct {
	channel   shared.NotificationChannel
	reminders shared.ReminderScheduler
}

func NewNotificationDispatcher(channel shared.NotificationChannel, reminders shared.ReminderScheduler) *NotificationDispatcher {
	return &NotificationDispatcher{channel: channel, reminders: reminders}
}

// Dispatch sends the scenario messages for a persisted booking and schedules its reminders.
// Delivery failures are logged only.
func (d *NotificationDispatcher) Dispatch(ctx context.Context, scope shared.RequestScope, in NotificationInput) {
	if in.DryRun {
		return
	}

	// a multi-attendee booking whose first attendee is someone else holds a stale list
	if in.Booking != nil && len(in.Booking.Attendees) > 1 &&
		!strings.EqualFold(in.Booking.Attendees[0].Email, in.BookerEmail) {
		scope.Logger.Info("skipping notifications for seated booking with another primary attendee")
		return
	}

	workflows := in.EventType.Workflows
	suppressAttendee := eventtype.AllowDisablingAttendeeConfirmationEmails(workflows)
	suppressHost := eventtype.AllowDisablingHostConfirmationEmails(workflows)

	for _, msg := range d.messages(in, suppressAttendee, suppressHost) {
		if err := d.channel.Send(ctx, msg); err != nil {
			scope.Logger.Error("notification delivery failed",
				"scenario", string(msg.Scenario),
				"organizer", in.Organizer.Email,
				"error", err.Error())
		}
	}

	if !in.IsFirstRecurringSlot {
		return
	}
	uid := in.Event.UID
	if in.Booking != nil {
		uid = in.Booking.UID
	}
	if len(workflows) > 0 {
		err := d.reminders.ScheduleWorkflowReminders(ctx, shared.WorkflowReminderRequest{
			Workflows:             workflows,
			Event:                 in.Event,
			BookingUID:            uid,
			SMSReminderNumber:     in.Event.SMSReminderNumber,
			IsFirstRecurringEvent: true,
			RequiresConfirmation:  in.RequiresConfirmation,
		})
		if err != nil {
			scope.Logger.Error("workflow reminder scheduling failed", "uid", uid, "error", err.Error())
		}
	}
	err := d.reminders.ScheduleMandatoryReminder(ctx, shared.MandatoryReminderRequest{
		Event:                in.Event,
		BookingUID:           uid,
		Workflows:            workflows,
		RequiresConfirmation: in.RequiresConfirmation,
	})
	if err != nil {
		scope.Logger.Error("mandatory reminder scheduling failed", "uid", uid, "error", err.Error())
	}
}

func (d *NotificationDispatcher) messages(in NotificationInput, suppressAttendee, suppressHost bool) []shared.NotificationMessage {
	evt := in.Event

	if in.IsRescheduling {
		if in.ChangedOrganizer {
			msgs := []shared.NotificationMessage{{
				Scenario:         shared.ScenarioRoundRobinRescheduled,
				Event:            evt,
				Recipients:       []calendarevent.Person{in.Organizer},
				SuppressAttendee: suppressAttendee,
				SuppressHost:     suppressHost,
			}}
			if in.PreviousOrganizer != nil {
				msgs = append(msgs, shared.NotificationMessage{
					Scenario:     shared.ScenarioRoundRobinCancelled,
					Event:        evt,
					Recipients:   []calendarevent.Person{*in.PreviousOrganizer},
					SuppressHost: suppressHost,
				})
			}
			return msgs
		}
		return []shared.NotificationMessage{{
			Scenario:         shared.ScenarioRescheduled,
			Event:            evt,
			Recipients:       evt.Attendees,
			SuppressAttendee: suppressAttendee,
			SuppressHost:     suppressHost,
		}}
	}

	if in.RequiresConfirmation {
		var msgs []shared.NotificationMessage
		if in.EventType.IsTeamEvent() {
			msgs = append(msgs, shared.NotificationMessage{
				Scenario:     shared.ScenarioOrganizerRequest,
				Event:        evt,
				Recipients:   append([]calendarevent.Person{in.Organizer}, evt.TeamMembers()...),
				SuppressHost: suppressHost,
			})
		}
		if !in.NoEmail {
			msgs = append(msgs, shared.NotificationMessage{
				Scenario:         shared.ScenarioAttendeeRequest,
				Event:            evt,
				Recipients:       []calendarevent.Person{evt.Booker()},
				SuppressAttendee: suppressAttendee,
			})
		}
		return msgs
	}

	if in.EventType.IsTeamEvent() && in.EventType.IsRoundRobin() {
		return []shared.NotificationMessage{{
			Scenario:         shared.ScenarioRoundRobinScheduled,
			Event:            evt,
			Recipients:       evt.TeamMembers(),
			SuppressAttendee: suppressAttendee || in.NoEmail,
			SuppressHost:     suppressHost || in.NoEmail,
		}}
	}
	return []shared.NotificationMessage{{
		Scenario:         shared.ScenarioScheduled,
		Event:            evt,
		Recipients:       append([]calendarevent.Person{in.Organizer}, evt.Attendees...),
		SuppressAttendee: suppressAttendee || in.NoEmail,
		SuppressHost:     suppressHost || in.NoEmail,
	}}
}
