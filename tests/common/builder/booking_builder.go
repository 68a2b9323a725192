//go:build unit || e2e

package builder

import (
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	reqdto "booking-orchestrator/internal/handler/dto/request"
	"booking-orchestrator/internal/usecase/commands"
)

func NewUser(id int64, username string) eventtype.User {
	return eventtype.User{
		ID:       id,
		Username: username,
		Name:     username + " host",
		Email:    username + "@example.com",
		TimeZone: "Europe/Berlin",
		Locale:   "en",
	}
}

type EventTypeBuilder struct {
	et eventtype.EventType
}

// NewEventTypeBuilder starts from a personal 30 minute event owned by user 1.
func NewEventTypeBuilder() *EventTypeBuilder {
	owner := int64(1)
	return &EventTypeBuilder{et: eventtype.EventType{
		ID:         11,
		Slug:       "intro-call",
		Title:      "Intro Call",
		Length:     30,
		OwnerID:    &owner,
		Users:      []eventtype.User{NewUser(1, "alice")},
		PeriodType: eventtype.PeriodUnlimited,
		Metadata:   map[string]any{},
	}}
}

func (b *EventTypeBuilder) With(mutate func(*eventtype.EventType)) *EventTypeBuilder {
	mutate(&b.et)
	return b
}

// RoundRobin turns the event into a team round-robin event over hosts.
func (b *EventTypeBuilder) RoundRobin(hosts ...eventtype.Host) *EventTypeBuilder {
	b.et.SchedulingType = eventtype.SchedulingRoundRobin
	b.et.Team = &eventtype.Team{ID: 7, Name: "Sales", Slug: "sales"}
	b.et.OwnerID = nil
	b.et.Users = nil
	b.et.Hosts = hosts
	return b
}

func (b *EventTypeBuilder) Build() *eventtype.EventType {
	et := b.et
	return &et
}

type BookingRequestBuilder struct {
	raw commands.RawBookingRequest
}

func NewBookingRequestBuilder(start time.Time) *BookingRequestBuilder {
	return &BookingRequestBuilder{raw: commands.RawBookingRequest{
		EventTypeID: 11,
		Start:       start.UTC().Format(time.RFC3339),
		End:         start.Add(30 * time.Minute).UTC().Format(time.RFC3339),
		TimeZone:    "Europe/Berlin",
		Language:    "en",
		Responses: map[string]any{
			"name":  "Bob Booker",
			"email": "Bob@Example.com",
		},
		Metadata: map[string]any{},
	}}
}

func (b *BookingRequestBuilder) With(mutate func(*commands.RawBookingRequest)) *BookingRequestBuilder {
	mutate(&b.raw)
	return b
}

func (b *BookingRequestBuilder) Build() commands.RawBookingRequest {
	return b.raw
}

func (b *BookingRequestBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	lang := b.raw.Language
	return reqdto.CreateBookingRequest{
		EventTypeID:   b.raw.EventTypeID,
		Start:         b.raw.Start,
		End:           b.raw.End,
		TimeZone:      b.raw.TimeZone,
		Language:      &lang,
		Responses:     b.raw.Responses,
		Metadata:      b.raw.Metadata,
		RescheduleUID: b.raw.RescheduleUID,
	}
}

// NewStoredBooking is an accepted booking organized by organizerID.
func NewStoredBooking(uid string, organizerID int64, start time.Time) *booking.Booking {
	etID := int64(11)
	return &booking.Booking{
		ID:          42,
		UID:         uid,
		EventTypeID: &etID,
		UserID:      &organizerID,
		Title:       "Intro Call between alice host and Bob Booker",
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		Status:      booking.StatusAccepted,
		Attendees: []booking.Attendee{
			{Name: "Bob Booker", Email: "bob@example.com", TimeZone: "Europe/Berlin", Locale: "en"},
		},
		ICalUID:      uid + "@booking-orchestrator",
		ICalSequence: 2,
		CreatedAt:    start.Add(-48 * time.Hour),
	}
}
