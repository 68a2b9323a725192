package commands

import (
	"context"
	"strings"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/usecase/shared"
)

type IntegrationInput struct {
	Event            calendarevent.Event
	Organizer        eventtype.User
	Credentials      []eventtype.Credential
	OriginalBooking  *booking.Booking
	ChangedOrganizer bool
	DryRun           bool
}

type IntegrationOutput struct {
	// Event is the event as sent to the integrations, with any discovered video call data.
	Event              calendarevent.Event
	Results            []calendarevent.IntegrationResult
	ReferencesToCreate []booking.Reference
	VideoCallURL       string
	Metadata           calendarevent.VideoMetadata
}

type IntegrationCoordinator struct {
	layer shared.IntegrationLayer
}

func NewIntegrationCoordinator(layer shared.IntegrationLayer) *IntegrationCoordinator {
	return &IntegrationCoordinator{layer: layer}
}

// HandleEventCreation creates or updates the external events for a booking. Integration
// failures never abort the request; they are logged and kept in the result set.
func (c *IntegrationCoordinator) HandleEventCreation(ctx context.Context, scope shared.RequestScope, in IntegrationInput) IntegrationOutput {
	evt := in.Event
	if in.DryRun {
		return IntegrationOutput{Event: evt}
	}

	target := shared.IntegrationTarget{Organizer: in.Organizer, Credentials: in.Credentials}

	var (
		outcome calendarevent.Outcome
		err     error
	)
	if in.OriginalBooking != nil {
		evt = evt.WithVideoCallData(videoCallDataFrom(in.OriginalBooking.VideoReference()))
		previous := previousDestinations(in.OriginalBooking)
		if in.ChangedOrganizer && evt.SchedulingType == eventtype.SchedulingRoundRobin {
			evt = evt.WithoutOrganizerArtifacts()
		} else if len(previous) > 0 {
			evt = evt.WithDestinationCalendars(previous)
		}
		outcome, err = c.layer.Reschedule(ctx, target, evt, shared.RescheduleRequest{
			OriginalUID:          in.OriginalBooking.UID,
			ChangedOrganizer:     in.ChangedOrganizer,
			PreviousDestinations: previous,
			OriginalReferences:   in.OriginalBooking.References,
		})
	} else {
		outcome, err = c.layer.Create(ctx, target, evt)
	}
	if err != nil {
		scope.Logger.Error("integration layer failed, continuing without external events",
			"organizer_id", in.Organizer.ID,
			"error", err.Error())
		outcome = calendarevent.Outcome{}
	}
	for _, f := range outcome.CleanupFailures {
		scope.Logger.Warn("failed to delete previous organizer event",
			"integration", f.Type,
			"external_uid", f.UID,
			"error", f.Error)
	}

	// Meet rides on the Google Calendar event, so nothing is recorded when no integration ran.
	if evt.Location == calendarevent.LocationGoogleMeet && len(outcome.Results) > 0 {
		outcome = synthesizeGoogleMeet(outcome)
	}

	if failed := outcome.Failed(); len(failed) > 0 {
		for _, r := range failed {
			scope.Logger.Error("integration failed",
				"organizer_id", in.Organizer.ID,
				"integration", r.Type,
				"uid", evt.UID,
				"error", r.Error,
				"warnings", r.Warnings)
		}
	}

	out := IntegrationOutput{
		Results:            outcome.Results,
		ReferencesToCreate: outcome.References,
	}
	out.VideoCallURL, out.Metadata = videoCallURL(outcome.Results, evt)
	if v := firstVideoCallData(outcome.Results); v != nil {
		evt = evt.WithVideoCallData(v)
	}
	out.Event = evt
	return out
}

// synthesizeGoogleMeet records a result for Meet, whose link comes from the Google Calendar
// event. The first google_calendar result decides the outcome.
func synthesizeGoogleMeet(outcome calendarevent.Outcome) calendarevent.Outcome {
	var gcal *calendarevent.IntegrationResult
	for i := range outcome.Results {
		if outcome.Results[i].Type == calendarevent.TypeGoogleCalendar {
			gcal = &outcome.Results[i]
			break
		}
	}

	meetFailed := calendarevent.IntegrationResult{
		Type:     calendarevent.TypeGoogleMeet,
		AppName:  calendarevent.AppNameGoogleMeet,
		Success:  false,
		Warnings: []string{calendarevent.WarningGoogleMeetMissing},
	}

	switch {
	case gcal == nil:
		outcome.Results = append(outcome.Results, meetFailed)
		return outcome
	case !gcal.Success:
		return outcome
	}

	link := ""
	if ev := gcal.Event(); ev != nil {
		link = ev.HangoutLink
	}
	if link == "" {
		meetFailed.UID = gcal.UID
		outcome.Results = append(outcome.Results, meetFailed)
		return outcome
	}

	outcome.Results = append(outcome.Results, calendarevent.IntegrationResult{
		Type:         calendarevent.TypeGoogleMeet,
		AppName:      calendarevent.AppNameGoogleMeet,
		Success:      true,
		UID:          gcal.UID,
		CredentialID: gcal.CredentialID,
		CreatedEvent: &calendarevent.ExternalEvent{
			Type:        calendarevent.TypeGoogleMeet,
			URL:         link,
			HangoutLink: link,
		},
	})

	refs := make([]booking.Reference, len(outcome.References), len(outcome.References)+1)
	copy(refs, outcome.References)
	for i := range refs {
		if refs[i].Type == calendarevent.TypeGoogleCalendar {
			refs[i].MeetingURL = link
			break
		}
	}
	outcome.References = append(refs, booking.Reference{
		Type:         calendarevent.TypeGoogleMeet,
		UID:          gcal.UID,
		MeetingID:    gcal.UID,
		MeetingURL:   link,
		CredentialID: gcal.CredentialID,
	})
	return outcome
}

func videoCallURL(results []calendarevent.IntegrationResult, evt calendarevent.Event) (string, calendarevent.VideoMetadata) {
	var meta calendarevent.VideoMetadata
	for _, r := range results {
		if !r.Success {
			continue
		}
		ev := r.Event()
		if ev == nil {
			continue
		}
		if ev.HangoutLink != "" {
			meta.HangoutLink = ev.HangoutLink
			meta.ConferenceData = ev.HasConferenceData
			meta.EntryPoints = ev.EntryPoints
			return ev.HangoutLink, meta
		}
		if r.IsVideo() && ev.URL != "" {
			return ev.URL, meta
		}
	}
	if evt.VideoCallData != nil {
		return evt.VideoCallData.URL, meta
	}
	return "", meta
}

func firstVideoCallData(results []calendarevent.IntegrationResult) *calendarevent.VideoCallData {
	for _, r := range results {
		if !r.Success || !r.IsVideo() {
			continue
		}
		ev := r.Event()
		if ev == nil || ev.URL == "" {
			continue
		}
		return &calendarevent.VideoCallData{
			Type:     r.Type,
			ID:       ev.ID,
			Password: ev.Password,
			URL:      ev.URL,
		}
	}
	return nil
}

func videoCallDataFrom(ref *booking.Reference) *calendarevent.VideoCallData {
	if ref == nil {
		return nil
	}
	return &calendarevent.VideoCallData{
		Type:     ref.Type,
		ID:       ref.MeetingID,
		Password: ref.MeetingPassword,
		URL:      ref.MeetingURL,
	}
}

func previousDestinations(original *booking.Booking) []eventtype.DestinationCalendar {
	var out []eventtype.DestinationCalendar
	for _, ref := range original.References {
		if ref.Deleted || ref.ExternalCalendarID == "" || !strings.HasSuffix(ref.Type, "_calendar") {
			continue
		}
		out = append(out, eventtype.DestinationCalendar{
			Integration:  ref.Type,
			ExternalID:   ref.ExternalCalendarID,
			CredentialID: ref.CredentialID,
		})
	}
	return out
}
