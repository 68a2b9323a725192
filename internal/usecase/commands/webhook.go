package commands

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

type WebhookInput struct {
	Event        calendarevent.Event
	Booking      *booking.Booking
	Filter       webhook.Filter
	Trigger      webhook.Trigger
	VideoCallURL string
	DryRun       bool
}

type WebhookDispatcher struct {
	store     shared.WebhookStore
	transport shared.WebhookTransport
	scheduler shared.WebhookScheduler
	clock     clock.Clock
}

func NewWebhookDispatcher(store shared.WebhookStore, transport shared.WebhookTransport, scheduler shared.WebhookScheduler, c clock.Clock) *WebhookDispatcher {
	return &WebhookDispatcher{store: store, transport: transport, scheduler: scheduler, clock: c}
}

// Dispatch delivers the trigger to every matching subscriber concurrently. It returns once all
// deliveries finished; failures are logged per subscriber and never returned.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, scope shared.RequestScope, in WebhookInput) {
	if in.DryRun {
		return
	}
	filter := in.Filter.WithTrigger(in.Trigger)
	subs, err := d.store.FindSubscribers(ctx, filter)
	if err != nil {
		scope.Logger.Error("webhook subscriber lookup failed", "trigger", string(in.Trigger), "error", err.Error())
		return
	}
	if len(subs) == 0 {
		return
	}

	createdAt := d.clock.Now()
	payload := webhook.Payload{
		TriggerEvent: in.Trigger,
		CreatedAt:    createdAt,
		Payload:      bookingPayload(in),
	}

	// a plain Group: one failed delivery must not cancel the others
	var g errgroup.Group
	for _, sub := range subs {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errs.Newf("webhook delivery panicked: %v", r)
				}
				if err != nil {
					scope.Logger.Error("webhook delivery failed",
						"subscriber_id", sub.ID,
						"subscriber_url", sub.SubscriberURL,
						"trigger", string(in.Trigger),
						"error", err.Error())
					return
				}
				scope.Logger.Debug("webhook delivered",
					"subscriber_id", sub.ID,
					"trigger", string(in.Trigger))
			}()
			return d.transport.Deliver(ctx, sub.Secret, in.Trigger, createdAt, sub, payload)
		})
	}
	_ = g.Wait()
}

// ScheduleMeetingTriggers queues MEETING_STARTED and MEETING_ENDED deliveries for the booking.
func (d *WebhookDispatcher) ScheduleMeetingTriggers(ctx context.Context, scope shared.RequestScope, in WebhookInput) {
	if in.DryRun || d.scheduler == nil || in.Booking == nil {
		return
	}
	schedule := []struct {
		trigger webhook.Trigger
		at      time.Time
	}{
		{webhook.TriggerMeetingStarted, in.Event.StartTime},
		{webhook.TriggerMeetingEnded, in.Event.EndTime},
	}
	for _, s := range schedule {
		if s.at.Before(d.clock.Now()) {
			continue
		}
		subs, err := d.store.FindSubscribers(ctx, in.Filter.WithTrigger(s.trigger))
		if err != nil {
			scope.Logger.Error("webhook subscriber lookup failed", "trigger", string(s.trigger), "error", err.Error())
			continue
		}
		payload := webhook.Payload{
			TriggerEvent: s.trigger,
			CreatedAt:    d.clock.Now(),
			Payload:      bookingPayload(in),
		}
		for _, sub := range subs {
			if err := d.scheduler.ScheduleDelivery(ctx, sub, payload, s.at); err != nil {
				scope.Logger.Error("scheduling webhook failed",
					"subscriber_id", sub.ID,
					"trigger", string(s.trigger),
					"error", err.Error())
			}
		}
	}
}

func bookingPayload(in WebhookInput) map[string]any {
	evt := in.Event
	attendees := make([]map[string]any, 0, len(evt.Attendees))
	for _, a := range evt.Attendees {
		attendees = append(attendees, map[string]any{
			"name":     a.Name,
			"email":    a.Email,
			"timeZone": a.TimeZone,
			"language": map[string]any{"locale": a.Locale},
		})
	}
	p := map[string]any{
		"type":                 evt.Type,
		"title":                evt.Title,
		"description":          evt.Description,
		"additionalNotes":      evt.AdditionalNotes,
		"startTime":            evt.StartTime,
		"endTime":              evt.EndTime,
		"organizer":            map[string]any{"name": evt.Organizer.Name, "email": evt.Organizer.Email, "timeZone": evt.Organizer.TimeZone},
		"attendees":            attendees,
		"location":             evt.Location,
		"uid":                  evt.UID,
		"iCalUID":              evt.ICalUID,
		"eventTypeId":          evt.EventTypeID,
		"responses":            evt.Responses,
		"requiresConfirmation": evt.RequiresConfirmation,
	}
	if evt.RescheduleReason != "" {
		p["rescheduleReason"] = evt.RescheduleReason
	}
	if in.VideoCallURL != "" {
		p["metadata"] = map[string]any{"videoCallUrl": in.VideoCallURL}
	}
	if b := in.Booking; b != nil {
		p["bookingId"] = b.ID
		p["status"] = string(b.Status)
		if b.FromReschedule != "" {
			p["rescheduleUid"] = b.FromReschedule
		}
	}
	return p
}
