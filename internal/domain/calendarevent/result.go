package calendarevent

import (
	"strings"

	"booking-orchestrator/internal/domain/booking"
)

const (
	LocationGoogleMeet = "integrations:google:meet"

	TypeGoogleCalendar = "google_calendar"
	TypeGoogleMeet     = "google_meet_video"
	AppNameGoogleMeet  = "Google Meet"

	WarningGoogleMeetMissing = "google_meet_warning"
)

// ExternalEvent is what an integration reports back after creating or updating its event.
type ExternalEvent struct {
	ID                 string
	UID                string
	ICalUID            string
	Type               string
	URL                string
	Password           string
	HangoutLink        string
	ExternalCalendarID string
	EntryPoints        []string
	HasConferenceData  bool
}

type IntegrationResult struct {
	Type         string
	AppName      string
	Success      bool
	UID          string
	ICalUID      string
	CreatedEvent *ExternalEvent
	UpdatedEvent *ExternalEvent
	CredentialID *int64
	Warnings     []string
	Error        string
}

// Event returns the updated event when present, otherwise the created one.
func (r IntegrationResult) Event() *ExternalEvent {
	if r.UpdatedEvent != nil {
		return r.UpdatedEvent
	}
	return r.CreatedEvent
}

func (r IntegrationResult) IsVideo() bool {
	return strings.HasSuffix(r.Type, "_video")
}

// Outcome of one create or reschedule round across all integrations.
type Outcome struct {
	Results    []IntegrationResult
	References []booking.Reference
	// CleanupFailures lists previous-organizer events that could not be deleted.
	CleanupFailures []CleanupFailure
}

type CleanupFailure struct {
	Type  string
	UID   string
	Error string
}

func (o Outcome) Failed() []IntegrationResult {
	var failed []IntegrationResult
	for _, r := range o.Results {
		if !r.Success {
			failed = append(failed, r)
		}
	}
	return failed
}

type VideoMetadata struct {
	HangoutLink    string   `json:"hangoutLink,omitempty"`
	ConferenceData bool     `json:"conferenceData,omitempty"`
	EntryPoints    []string `json:"entryPoints,omitempty"`
}
