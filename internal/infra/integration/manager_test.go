//go:build unit

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appCall struct {
	method string
	path   string
	body   eventRequest
}

type fakeApps struct {
	mu    sync.Mutex
	calls []appCall
}

func (f *fakeApps) recorded() []appCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]appCall(nil), f.calls...)
	sort.Slice(out, func(i, j int) bool { return out[i].method+out[i].path < out[j].method+out[j].path })
	return out
}

func newFakeApps(t *testing.T) (*Manager, *fakeApps) {
	t.Helper()
	apps := &fakeApps{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body eventRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		apps.mu.Lock()
		apps.calls = append(apps.calls, appCall{method: r.Method, path: r.URL.Path, body: body})
		apps.mu.Unlock()

		switch r.URL.Path {
		case "/apps/google_calendar/events", "/apps/google_calendar/events/gcal-old":
			_ = json.NewEncoder(w).Encode(eventResponse{ID: "gcal-evt", ICalUID: body.ICalUID, HangoutLink: "https://meet.google.com/abc", ConferenceData: true})
		case "/apps/zoom_video/events":
			_ = json.NewEncoder(w).Encode(eventResponse{ID: "987", URL: "https://zoom.example/j/987", Password: "pw"})
		case "/apps/zoom_video/events/z-gone":
			http.Error(w, `{"message":"meeting not found"}`, http.StatusNotFound)
		case "/apps/office365_calendar/events":
			http.Error(w, `{"message":"token expired"}`, http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	t.Cleanup(srv.Close)
	return NewManager(config.BookingConfig{IntegrationBaseURL: srv.URL + "/apps/", IntegrationTimeout: 2 * time.Second}), apps
}

func integrationEvent(location string) calendarevent.Event {
	start := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	return calendarevent.Event{
		UID:       "uid-1",
		Title:     "Intro Call",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Organizer: calendarevent.Person{Name: "alice host", Email: "alice@example.com", TimeZone: "Europe/Berlin"},
		Attendees: []calendarevent.Person{{Name: "Bob Booker", Email: "bob@example.com"}},
		Location:  location,
		ICalUID:   "uid-1@booking-orchestrator",
		DestinationCalendars: []eventtype.DestinationCalendar{
			{Integration: "google_calendar", ExternalID: "alice@group.calendar.google.com"},
		},
	}
}

func credentials() []eventtype.Credential {
	return []eventtype.Credential{
		{ID: 1, Type: "google_calendar", AppID: "google-calendar"},
		{ID: 2, Type: "zoom_video", AppID: "zoom"},
		{ID: 3, Type: "daily_video", AppID: "daily-video"},
		{ID: 4, Type: "office365_calendar", AppID: "office365-calendar"},
		{ID: 5, Type: "apple_calendar", AppID: "apple-calendar", Invalid: true},
	}
}

func TestManager_Create(t *testing.T) {
	m, apps := newFakeApps(t)
	target := shared.IntegrationTarget{Organizer: eventtype.User{ID: 1}, Credentials: credentials()}

	outcome, err := m.Create(context.Background(), target, integrationEvent("integrations:zoom"))

	require.NoError(t, err)
	calls := apps.recorded()
	require.Len(t, calls, 3)
	assert.Equal(t, "/apps/google_calendar/events", calls[0].path)
	assert.Equal(t, "alice@group.calendar.google.com", calls[0].body.ExternalCalendarID)
	assert.Equal(t, "/apps/office365_calendar/events", calls[1].path)
	assert.Equal(t, "/apps/zoom_video/events", calls[2].path)
	for _, c := range calls {
		assert.Equal(t, http.MethodPost, c.method)
		assert.Equal(t, "uid-1@booking-orchestrator", c.body.ICalUID)
	}

	require.Len(t, outcome.Results, 3)
	assert.Len(t, outcome.Failed(), 1)
	assert.Equal(t, "office365_calendar", outcome.Failed()[0].Type)
	assert.Contains(t, outcome.Failed()[0].Error, "http 401")

	require.Len(t, outcome.References, 2)
	byType := map[string]booking.Reference{}
	for _, ref := range outcome.References {
		byType[ref.Type] = ref
	}
	assert.Equal(t, "gcal-evt", byType["google_calendar"].UID)
	assert.Equal(t, "alice@group.calendar.google.com", byType["google_calendar"].ExternalCalendarID)
	assert.Equal(t, "https://zoom.example/j/987", byType["zoom_video"].MeetingURL)
	assert.Equal(t, "pw", byType["zoom_video"].MeetingPassword)
}

func TestManager_Reschedule(t *testing.T) {
	original := []booking.Reference{
		{Type: "google_calendar", UID: "gcal-old"},
		{Type: "zoom_video", UID: "zoom-old", Deleted: true},
	}
	creds := []eventtype.Credential{{ID: 1, Type: "google_calendar"}}

	t.Run("same organizer updates existing events", func(t *testing.T) {
		m, apps := newFakeApps(t)

		outcome, err := m.Reschedule(context.Background(),
			shared.IntegrationTarget{Credentials: creds},
			integrationEvent(calendarevent.LocationGoogleMeet),
			shared.RescheduleRequest{OriginalUID: "orig", OriginalReferences: original})

		require.NoError(t, err)
		calls := apps.recorded()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPut, calls[0].method)
		assert.Equal(t, "/apps/google_calendar/events/gcal-old", calls[0].path)
		require.Len(t, outcome.Results, 1)
		assert.NotNil(t, outcome.Results[0].UpdatedEvent)
		assert.Equal(t, "https://meet.google.com/abc", outcome.Results[0].UpdatedEvent.HangoutLink)
	})

	t.Run("changed organizer deletes old events and creates new ones", func(t *testing.T) {
		m, apps := newFakeApps(t)

		_, err := m.Reschedule(context.Background(),
			shared.IntegrationTarget{Credentials: creds},
			integrationEvent(""),
			shared.RescheduleRequest{OriginalUID: "orig", ChangedOrganizer: true, OriginalReferences: original})

		require.NoError(t, err)
		calls := apps.recorded()
		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodDelete, calls[0].method)
		assert.Equal(t, "/apps/google_calendar/events/gcal-old", calls[0].path)
		assert.Equal(t, http.MethodPost, calls[1].method)
		assert.Equal(t, "/apps/google_calendar/events", calls[1].path)
	})

	t.Run("undeletable previous event is reported, not fatal", func(t *testing.T) {
		m, apps := newFakeApps(t)
		refs := append([]booking.Reference{{Type: "zoom_video", UID: "z-gone"}}, original...)

		outcome, err := m.Reschedule(context.Background(),
			shared.IntegrationTarget{Credentials: creds},
			integrationEvent(""),
			shared.RescheduleRequest{OriginalUID: "orig", ChangedOrganizer: true, OriginalReferences: refs})

		require.NoError(t, err)
		require.Len(t, outcome.CleanupFailures, 1)
		assert.Equal(t, "zoom_video", outcome.CleanupFailures[0].Type)
		assert.Equal(t, "z-gone", outcome.CleanupFailures[0].UID)
		assert.NotEmpty(t, outcome.CleanupFailures[0].Error)
		require.Len(t, outcome.Results, 1)
		assert.True(t, outcome.Results[0].Success)
		assert.Len(t, apps.recorded(), 3)
	})
}

func TestVideoTypeFor(t *testing.T) {
	testCases := map[string]string{
		"integrations:zoom":            "zoom_video",
		"integrations:daily":           "daily_video",
		"integrations:google:meet":     "",
		"https://example.com/room":     "",
		"":                             "",
	}
	for location, want := range testCases {
		assert.Equal(t, want, videoTypeFor(location), location)
	}
}

func TestToRequest_HidesNotes(t *testing.T) {
	evt := integrationEvent("")
	evt.Description = "private agenda"
	evt.HideCalendarNotes = true
	delegated := "dlg-1"

	req := toRequest(evt, job{cred: eventtype.Credential{ID: -1, Type: "google_calendar", DelegationCredentialID: &delegated}})

	assert.Empty(t, req.Description)
	assert.Equal(t, "dlg-1", req.DelegationCredential)
	assert.Len(t, req.Attendees, 1)
}
