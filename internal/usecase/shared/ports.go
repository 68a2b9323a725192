package shared

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/domain/webhook"
)

type EventTypeReadStore interface {
	FindByID(ctx context.Context, id int64) (*eventtype.EventType, error)
}

type BookingReadStore interface {
	FindByUID(ctx context.Context, uid string) (*booking.Booking, error)
}

type UserReadStore interface {
	FindByUsernames(ctx context.Context, usernames []string, orgSlug string) ([]eventtype.User, error)
}

type BlockList interface {
	IsBlocked(ctx context.Context, userID *int64, email string) (bool, error)
}

type BookingWindow interface {
	WithinBookingWindow(start time.Time, bookerTZ string, et *eventtype.EventType, hostTZ string) error
}

// DelegationCredentials adds organization-wide credentials to users of that organization.
type DelegationCredentials interface {
	EnrichUsers(ctx context.Context, orgID *int64, users []eventtype.User) ([]eventtype.User, error)
}

type AvailabilityWindow struct {
	From     time.Time
	To       time.Time
	TimeZone string
	// IgnoreBookingUID excludes the booking being rescheduled from busy times.
	IgnoreBookingUID string
}

type AvailabilityChecker interface {
	// AvailableHosts returns the hosts free for the whole window, preserving order.
	AvailableHosts(ctx context.Context, hosts []eventtype.Host, window AvailabilityWindow) ([]eventtype.Host, error)
}

type LuckyUserRequest struct {
	Candidates            []eventtype.Host
	AllRRHosts            []eventtype.Host
	EventType             *eventtype.EventType
	RoutingFormResponseID *int64
}

type FairnessSource interface {
	// PickLuckyUser returns nil when no candidate can be chosen.
	PickLuckyUser(ctx context.Context, req LuckyUserRequest) (*eventtype.Host, error)
}

type IntegrationTarget struct {
	Organizer   eventtype.User
	Credentials []eventtype.Credential
}

type RescheduleRequest struct {
	OriginalUID          string
	ChangedOrganizer     bool
	PreviousDestinations []eventtype.DestinationCalendar
	OriginalReferences   []booking.Reference
}

type IntegrationLayer interface {
	Create(ctx context.Context, target IntegrationTarget, evt calendarevent.Event) (calendarevent.Outcome, error)
	Reschedule(ctx context.Context, target IntegrationTarget, evt calendarevent.Event, req RescheduleRequest) (calendarevent.Outcome, error)
}

type Scenario string

const (
	ScenarioScheduled             Scenario = "scheduled"
	ScenarioRescheduled           Scenario = "rescheduled"
	ScenarioRoundRobinScheduled   Scenario = "round_robin_scheduled"
	ScenarioRoundRobinRescheduled Scenario = "round_robin_rescheduled"
	ScenarioRoundRobinCancelled   Scenario = "round_robin_cancelled"
	ScenarioOrganizerRequest      Scenario = "organizer_request"
	ScenarioAttendeeRequest       Scenario = "attendee_request"
	ScenarioReminder              Scenario = "reminder"
)

type NotificationMessage struct {
	Scenario   Scenario
	Event      calendarevent.Event
	Recipients []calendarevent.Person
	// Suppress* skip the standard email/SMS for that side.
	SuppressAttendee bool
	SuppressHost     bool
}

type NotificationChannel interface {
	Send(ctx context.Context, msg NotificationMessage) error
}

type WorkflowReminderRequest struct {
	Workflows             []eventtype.Workflow
	Event                 calendarevent.Event
	BookingUID            string
	SMSReminderNumber     string
	IsFirstRecurringEvent bool
	RequiresConfirmation  bool
}

type MandatoryReminderRequest struct {
	Event                calendarevent.Event
	BookingUID           string
	Workflows            []eventtype.Workflow
	RequiresConfirmation bool
}

type ReminderScheduler interface {
	ScheduleWorkflowReminders(ctx context.Context, req WorkflowReminderRequest) error
	ScheduleMandatoryReminder(ctx context.Context, req MandatoryReminderRequest) error
}

type WebhookStore interface {
	FindSubscribers(ctx context.Context, filter webhook.Filter) ([]webhook.Subscriber, error)
}

type WebhookTransport interface {
	Deliver(ctx context.Context, secret string, trigger webhook.Trigger, createdAt time.Time, sub webhook.Subscriber, payload webhook.Payload) error
}

type WebhookScheduler interface {
	ScheduleDelivery(ctx context.Context, sub webhook.Subscriber, payload webhook.Payload, at time.Time) error
}
