package booking

import (
	"time"
)

type Status string

const (
	StatusAccepted     Status = "accepted"
	StatusPending      Status = "pending"
	StatusCancelled    Status = "cancelled"
	StatusRejected     Status = "rejected"
	StatusAwaitingHost Status = "awaiting_host"
)

func (s Status) String() string {
	return string(s)
}

// Blocking statuses occupy the host's time.
func (s Status) IsBlocking() bool {
	return s == StatusAccepted || s == StatusPending || s == StatusAwaitingHost
}

type CreationSource string

const (
	SourceAPI      CreationSource = "api"
	SourceWebapp   CreationSource = "webapp"
	SourcePlatform CreationSource = "platform"
)

// DryRunUID is returned instead of a real UID when nothing is persisted.
const DryRunUID = "dry-run-booking-uid"

type Attendee struct {
	Name        string
	Email       string
	TimeZone    string
	Locale      string
	PhoneNumber string
}

// Reference links a booking to the event an external integration created for it.
type Reference struct {
	Type                   string
	UID                    string
	MeetingID              string
	MeetingPassword        string
	MeetingURL             string
	ExternalCalendarID     string
	CredentialID           *int64
	DelegationCredentialID *string
	Deleted                bool
}

type Booking struct {
	ID                int64
	UID               string
	EventTypeID       *int64
	UserID            *int64
	Title             string
	Description       string
	StartTime         time.Time
	EndTime           time.Time
	Status            Status
	Location          string
	Attendees         []Attendee
	References        []Reference
	Responses         map[string]any
	Metadata          map[string]any
	ICalUID           string
	ICalSequence      int
	FromReschedule    string
	Rescheduled       bool
	RecurringEventID  string
	SMSReminderNumber string
	CreationSource    CreationSource
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (b *Booking) OrganizerID() int64 {
	if b == nil || b.UserID == nil {
		return 0
	}
	return *b.UserID
}

// VideoReference returns the first conferencing reference, if any.
func (b *Booking) VideoReference() *Reference {
	if b == nil {
		return nil
	}
	for i := range b.References {
		ref := &b.References[i]
		if !ref.Deleted && isVideoType(ref.Type) {
			return ref
		}
	}
	return nil
}

func isVideoType(t string) bool {
	const suffix = "_video"
	return len(t) >= len(suffix) && t[len(t)-len(suffix):] == suffix
}
