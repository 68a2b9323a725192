package calendarevent

import (
	"time"

	"booking-orchestrator/internal/domain/eventtype"
)

type Person struct {
	ID          *int64
	Name        string
	Email       string
	Username    string
	TimeZone    string
	Locale      string
	PhoneNumber string
}

type Team struct {
	ID      int64
	Name    string
	Members []Person
}

type VideoCallData struct {
	Type     string
	ID       string
	Password string
	URL      string
}

// Event is the integration-agnostic meeting handed to calendars, notifications and webhooks.
// Treat it as a value: overrides go through the With* methods, which return copies.
type Event struct {
	UID                  string
	Type                 string
	Title                string
	Description          string
	AdditionalNotes      string
	StartTime            time.Time
	EndTime              time.Time
	Organizer            Person
	Attendees            []Person
	Team                 *Team
	Location             string
	VideoCallData        *VideoCallData
	ICalUID              string
	DestinationCalendars []eventtype.DestinationCalendar
	EventTypeID          int64
	SchedulingType       eventtype.SchedulingType
	RequiresConfirmation bool
	Length               int
	Responses            map[string]any
	RescheduleReason     string
	SMSReminderNumber    string
	HideCalendarNotes    bool
	DynamicEventSlugRef  string
	DynamicGroupSlugRef  string
	RecurringEventID     string
}

func (e Event) Clone() Event {
	c := e
	c.Attendees = append([]Person(nil), e.Attendees...)
	c.DestinationCalendars = append([]eventtype.DestinationCalendar(nil), e.DestinationCalendars...)
	if e.Team != nil {
		t := *e.Team
		t.Members = append([]Person(nil), e.Team.Members...)
		c.Team = &t
	}
	if e.VideoCallData != nil {
		v := *e.VideoCallData
		c.VideoCallData = &v
	}
	if e.Responses != nil {
		c.Responses = make(map[string]any, len(e.Responses))
		for k, v := range e.Responses {
			c.Responses[k] = v
		}
	}
	return c
}

func (e Event) WithVideoCallData(v *VideoCallData) Event {
	c := e.Clone()
	if v != nil {
		vv := *v
		c.VideoCallData = &vv
	} else {
		c.VideoCallData = nil
	}
	return c
}

// WithoutOrganizerArtifacts drops video data and the iCal UID minted for a previous organizer
// so the new organizer's integrations generate their own. The title is kept.
func (e Event) WithoutOrganizerArtifacts() Event {
	c := e.Clone()
	c.VideoCallData = nil
	c.ICalUID = ""
	return c
}

func (e Event) WithDestinationCalendars(dc []eventtype.DestinationCalendar) Event {
	c := e.Clone()
	c.DestinationCalendars = append([]eventtype.DestinationCalendar(nil), dc...)
	return c
}

// Booker is the first attendee.
func (e Event) Booker() Person {
	if len(e.Attendees) == 0 {
		return Person{}
	}
	return e.Attendees[0]
}

func (e Event) TeamMembers() []Person {
	if e.Team == nil {
		return nil
	}
	return e.Team.Members
}
