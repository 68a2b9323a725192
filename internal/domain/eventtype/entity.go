package eventtype

import (
	"time"
)

type SchedulingType string

const (
	SchedulingNone       SchedulingType = ""
	SchedulingRoundRobin SchedulingType = "ROUND_ROBIN"
	SchedulingCollective SchedulingType = "COLLECTIVE"
	SchedulingManaged    SchedulingType = "MANAGED"
)

type PeriodType string

const (
	PeriodUnlimited PeriodType = "UNLIMITED"
	PeriodRolling   PeriodType = "ROLLING"
	PeriodRange     PeriodType = "RANGE"
)

// EventType is read-only configuration owned by the event-type service.
type EventType struct {
	ID                   int64
	Slug                 string
	Title                string
	Description          string
	EventName            string
	Length               int
	MultipleDurations    []int
	SchedulingType       SchedulingType
	RequiresConfirmation bool
	OwnerID              *int64
	Team                 *Team
	Hosts                []Host
	Users                []User
	BookingFields        []BookingField
	Locations            []Location
	Workflows            []Workflow

	MinimumBookingNotice int
	PeriodType           PeriodType
	PeriodDays           int
	PeriodStartDate      *time.Time
	PeriodEndDate        *time.Time
	ScheduleTimeZone     string

	RescheduleWithSameRoundRobinHost bool
	HideCalendarNotes                bool
	DestinationCalendar              *DestinationCalendar
	Metadata                         map[string]any
}

type Team struct {
	ID       int64
	Name     string
	Slug     string
	ParentID *int64
}

type Location struct {
	Type         string
	Address      string
	Link         string
	CredentialID *int64
}

type DestinationCalendar struct {
	Integration  string
	ExternalID   string
	CredentialID *int64
	PrimaryEmail string
}

// Credential authorises calls to one external calendar or video app on behalf of a user.
type Credential struct {
	ID                     int64
	Type                   string
	AppID                  string
	UserID                 *int64
	DelegationCredentialID *string
	Invalid                bool
}

func (c Credential) IsCalendar() bool {
	return hasSuffix(c.Type, "_calendar")
}

func (c Credential) IsVideo() bool {
	return hasSuffix(c.Type, "_video") || hasSuffix(c.Type, "_conferencing")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

type User struct {
	ID                  int64
	Username            string
	Name                string
	Email               string
	TimeZone            string
	Locale              string
	OrganizationID      *int64
	Credentials         []Credential
	DestinationCalendar *DestinationCalendar
}

// Host is a user candidate for an event; fixed hosts are always included.
type Host struct {
	User       User
	IsFixed    bool
	Priority   int
	Weight     int
	ScheduleID *int64
}

func (e *EventType) IsTeamEvent() bool {
	return e.Team != nil
}

func (e *EventType) IsRoundRobin() bool {
	return e.SchedulingType == SchedulingRoundRobin
}

// HostTimeZone is the zone booking-window rules are evaluated in.
func (e *EventType) HostTimeZone(organizer *User) string {
	if e.ScheduleTimeZone != "" {
		return e.ScheduleTimeZone
	}
	if organizer != nil && organizer.TimeZone != "" {
		return organizer.TimeZone
	}
	return "UTC"
}

func (e *EventType) HasHost(userID int64) bool {
	for _, h := range e.Hosts {
		if h.User.ID == userID {
			return true
		}
	}
	for _, u := range e.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// AllowsDuration reports whether minutes is a bookable length for this event type.
func (e *EventType) AllowsDuration(minutes int) bool {
	if len(e.MultipleDurations) > 0 {
		for _, d := range e.MultipleDurations {
			if d == minutes {
				return true
			}
		}
		return false
	}
	return minutes == e.Length
}
