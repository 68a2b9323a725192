//go:build unit

package calendarevent_test

import (
	"testing"
	"time"

	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

func baseInput(et *eventtype.EventType) calendarevent.BuildInput {
	organizer := builder.NewUser(1, "alice")
	return calendarevent.BuildInput{
		UID:       "uid-1",
		EventType: et,
		Organizer: organizer,
		Hosts:     []eventtype.User{organizer},
		Booker: calendarevent.Person{
			Name:     "Bob Booker",
			Email:    "bob@example.com",
			TimeZone: "Europe/Berlin",
			Locale:   "en",
		},
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Location:  "integrations:daily",
		Responses: map[string]any{"name": "Bob Booker", "email": "bob@example.com"},
	}
}

func TestBuild(t *testing.T) {
	t.Run("personal event", func(t *testing.T) {
		et := builder.NewEventTypeBuilder().Build()

		evt := calendarevent.Build(baseInput(et))

		aliceID := int64(1)
		want := calendarevent.Event{
			UID:   "uid-1",
			Type:  "intro-call",
			Title: "Intro Call between alice host and Bob Booker",
			Organizer: calendarevent.Person{
				ID: &aliceID, Name: "alice host", Email: "alice@example.com",
				Username: "alice", TimeZone: "Europe/Berlin", Locale: "en",
			},
			Attendees: []calendarevent.Person{
				{Name: "Bob Booker", Email: "bob@example.com", TimeZone: "Europe/Berlin", Locale: "en"},
			},
			StartTime:   start,
			EndTime:     start.Add(30 * time.Minute),
			Location:    "integrations:daily",
			ICalUID:     "uid-1@booking-orchestrator",
			EventTypeID: 11,
			Length:      30,
			Responses:   map[string]any{"name": "Bob Booker", "email": "bob@example.com"},
		}
		if diff := cmp.Diff(want, evt, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Build() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("guests are deduplicated against booker and hosts", func(t *testing.T) {
		in := baseInput(builder.NewEventTypeBuilder().Build())
		in.Guests = []string{"carol@example.com", "BOB@example.com", "alice@example.com", " carol@example.com ", "", "dave@example.com"}

		evt := calendarevent.Build(in)

		emails := make([]string, 0, len(evt.Attendees))
		for _, a := range evt.Attendees {
			emails = append(emails, a.Email)
		}
		assert.Equal(t, []string{"bob@example.com", "carol@example.com", "dave@example.com"}, emails)
		assert.Equal(t, "Europe/Berlin", evt.Attendees[1].TimeZone)
	})

	t.Run("custom event name template", func(t *testing.T) {
		et := builder.NewEventTypeBuilder().With(func(et *eventtype.EventType) {
			et.EventName = "{Scheduler} x {Organiser} ({Event type title}) @ {Location}"
		}).Build()

		evt := calendarevent.Build(baseInput(et))

		assert.Equal(t, "Bob Booker x alice host (Intro Call) @ integrations:daily", evt.Title)
	})

	t.Run("team event lists other hosts as members", func(t *testing.T) {
		bob := builder.NewUser(2, "bob")
		et := builder.NewEventTypeBuilder().RoundRobin(
			eventtype.Host{User: builder.NewUser(1, "alice")},
			eventtype.Host{User: bob},
		).Build()
		in := baseInput(et)
		in.Hosts = []eventtype.User{builder.NewUser(1, "alice"), bob}

		evt := calendarevent.Build(in)

		require.NotNil(t, evt.Team)
		assert.Equal(t, int64(7), evt.Team.ID)
		require.Len(t, evt.TeamMembers(), 1)
		assert.Equal(t, "bob@example.com", evt.TeamMembers()[0].Email)
		assert.Equal(t, eventtype.SchedulingRoundRobin, evt.SchedulingType)
	})

	t.Run("carried over iCalUID and dynamic group refs", func(t *testing.T) {
		in := baseInput(builder.NewEventTypeBuilder().Build())
		in.ICalUID = "original@booking-orchestrator"
		in.DynamicUsernames = []string{"alice", "bob"}

		evt := calendarevent.Build(in)

		assert.Equal(t, "original@booking-orchestrator", evt.ICalUID)
		assert.Equal(t, "intro-call", evt.DynamicEventSlugRef)
		assert.Equal(t, "alice+bob", evt.DynamicGroupSlugRef)
	})

	t.Run("event type destination calendar wins over organizer's", func(t *testing.T) {
		et := builder.NewEventTypeBuilder().With(func(et *eventtype.EventType) {
			et.DestinationCalendar = &eventtype.DestinationCalendar{Integration: "google_calendar", ExternalID: "team@group"}
		}).Build()
		in := baseInput(et)
		in.Organizer.DestinationCalendar = &eventtype.DestinationCalendar{Integration: "office365_calendar", ExternalID: "alice"}

		evt := calendarevent.Build(in)

		require.Len(t, evt.DestinationCalendars, 1)
		assert.Equal(t, "team@group", evt.DestinationCalendars[0].ExternalID)
	})
}

func TestEvent_CopyOnWrite(t *testing.T) {
	evt := calendarevent.Build(baseInput(builder.NewEventTypeBuilder().Build()))
	evt.VideoCallData = &calendarevent.VideoCallData{Type: "zoom_video", URL: "https://zoom.example/j/1"}

	stripped := evt.WithoutOrganizerArtifacts()
	assert.Equal(t, evt.Title, stripped.Title)
	assert.Empty(t, stripped.ICalUID)
	assert.Nil(t, stripped.VideoCallData)

	assert.NotEmpty(t, evt.Title)
	assert.Equal(t, "uid-1@booking-orchestrator", evt.ICalUID)
	require.NotNil(t, evt.VideoCallData)

	replaced := evt.WithVideoCallData(&calendarevent.VideoCallData{URL: "https://meet.example/x"})
	replaced.Responses["extra"] = true
	assert.Equal(t, "https://zoom.example/j/1", evt.VideoCallData.URL)
	assert.NotContains(t, evt.Responses, "extra")
}
