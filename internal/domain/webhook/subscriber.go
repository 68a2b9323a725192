package webhook

import "time"

type Trigger string

const (
	TriggerBookingCreated     Trigger = "BOOKING_CREATED"
	TriggerBookingRescheduled Trigger = "BOOKING_RESCHEDULED"
	TriggerMeetingStarted     Trigger = "MEETING_STARTED"
	TriggerMeetingEnded       Trigger = "MEETING_ENDED"
)

type Subscriber struct {
	ID              string
	SubscriberURL   string
	Secret          string
	PayloadTemplate string
	AppID           string
	Active          bool
	Triggers        []Trigger

	UserID        *int64
	TeamID        *int64
	OrgID         *int64
	OAuthClientID *string
	EventTypeID   *int64
}

// Filter selects subscribers by scope. Each non-nil scope id matches subscribers of that scope
// registered either for EventTypeID or for every event type.
type Filter struct {
	UserID        *int64
	TeamID        *int64
	OrgID         *int64
	OAuthClientID *string
	EventTypeID   *int64
	Trigger       Trigger
}

func (f Filter) Matches(s Subscriber) bool {
	if !s.Active || !s.Listens(f.Trigger) {
		return false
	}
	eventTypeOK := s.EventTypeID == nil || (f.EventTypeID != nil && *s.EventTypeID == *f.EventTypeID)
	if !eventTypeOK {
		return false
	}
	switch {
	case eqInt(f.UserID, s.UserID),
		eqInt(f.TeamID, s.TeamID),
		eqInt(f.OrgID, s.OrgID),
		f.OAuthClientID != nil && s.OAuthClientID != nil && *f.OAuthClientID == *s.OAuthClientID:
		return true
	}
	// subscribers registered directly on the event type
	return s.EventTypeID != nil && s.UserID == nil && s.TeamID == nil && s.OrgID == nil && s.OAuthClientID == nil
}

func (f Filter) WithTrigger(t Trigger) Filter {
	f.Trigger = t
	return f
}

func (s Subscriber) Listens(t Trigger) bool {
	for _, tr := range s.Triggers {
		if tr == t {
			return true
		}
	}
	return false
}

func eqInt(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

// Payload is the body delivered to a subscriber.
type Payload struct {
	TriggerEvent Trigger        `json:"triggerEvent"`
	CreatedAt    time.Time      `json:"createdAt"`
	Payload      map[string]any `json:"payload"`
}
