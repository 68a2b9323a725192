package calendarevent

import (
	"fmt"
	"strings"
	"time"

	"booking-orchestrator/internal/domain/eventtype"
)

const iCalDomain = "booking-orchestrator"

// BuildInput is everything the assembler reads; it performs no I/O.
type BuildInput struct {
	UID              string
	EventType        *eventtype.EventType
	Organizer        eventtype.User
	Hosts            []eventtype.User
	Booker           Person
	Guests           []string
	Start            time.Time
	End              time.Time
	Location         string
	Notes            string
	Responses        map[string]any
	RescheduleReason string
	SMSReminder      string
	DynamicUsernames []string
	RecurringEventID string
	// ICalUID is carried over from the original booking on reschedule.
	ICalUID string
}

func ICalUIDFor(uid string) string {
	return fmt.Sprintf("%s@%s", uid, iCalDomain)
}

// Build assembles the calendar event for a booking.
func Build(in BuildInput) Event {
	et := in.EventType
	organizer := personFromUser(in.Organizer)

	evt := Event{
		UID:                  in.UID,
		Type:                 et.Slug,
		Description:          et.Description,
		AdditionalNotes:      in.Notes,
		StartTime:            in.Start.UTC(),
		EndTime:              in.End.UTC(),
		Organizer:            organizer,
		Attendees:            attendees(in),
		Location:             in.Location,
		EventTypeID:          et.ID,
		SchedulingType:       et.SchedulingType,
		RequiresConfirmation: et.RequiresConfirmation,
		Length:               int(in.End.Sub(in.Start) / time.Minute),
		Responses:            copyResponses(in.Responses),
		RescheduleReason:     in.RescheduleReason,
		SMSReminderNumber:    in.SMSReminder,
		HideCalendarNotes:    et.HideCalendarNotes,
		RecurringEventID:     in.RecurringEventID,
		ICalUID:              in.ICalUID,
	}
	if evt.ICalUID == "" {
		evt.ICalUID = ICalUIDFor(in.UID)
	}
	evt.Title = eventName(et, organizer.Name, in.Booker.Name, in.Location)

	if len(in.DynamicUsernames) > 0 {
		evt.DynamicEventSlugRef = et.Slug
		evt.DynamicGroupSlugRef = strings.Join(in.DynamicUsernames, "+")
	}

	if et.Team != nil {
		evt.Team = &Team{ID: et.Team.ID, Name: et.Team.Name, Members: teamMembers(in.Hosts, in.Organizer.ID)}
	}

	switch {
	case et.DestinationCalendar != nil:
		evt.DestinationCalendars = []eventtype.DestinationCalendar{*et.DestinationCalendar}
	case in.Organizer.DestinationCalendar != nil:
		evt.DestinationCalendars = []eventtype.DestinationCalendar{*in.Organizer.DestinationCalendar}
	}

	return evt
}

func personFromUser(u eventtype.User) Person {
	id := u.ID
	return Person{
		ID:       &id,
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		TimeZone: u.TimeZone,
		Locale:   u.Locale,
	}
}

// booker first, then guests without duplicates or host addresses
func attendees(in BuildInput) []Person {
	out := []Person{in.Booker}
	seen := map[string]struct{}{strings.ToLower(in.Booker.Email): {}}
	for _, h := range in.Hosts {
		seen[strings.ToLower(h.Email)] = struct{}{}
	}
	seen[strings.ToLower(in.Organizer.Email)] = struct{}{}

	for _, g := range in.Guests {
		key := strings.ToLower(strings.TrimSpace(g))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Person{
			Name:     "",
			Email:    strings.TrimSpace(g),
			TimeZone: in.Booker.TimeZone,
			Locale:   in.Booker.Locale,
		})
	}
	return out
}

func teamMembers(hosts []eventtype.User, organizerID int64) []Person {
	members := make([]Person, 0, len(hosts))
	for _, h := range hosts {
		if h.ID == organizerID {
			continue
		}
		members = append(members, personFromUser(h))
	}
	return members
}

func eventName(et *eventtype.EventType, organizer, booker, location string) string {
	if et.EventName == "" {
		return fmt.Sprintf("%s between %s and %s", et.Title, organizer, booker)
	}
	r := strings.NewReplacer(
		"{Event type title}", et.Title,
		"{Organiser}", organizer,
		"{Scheduler}", booker,
		"{Location}", location,
	)
	return r.Replace(et.EventName)
}

func copyResponses(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
