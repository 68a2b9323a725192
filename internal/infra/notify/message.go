package notify

import (
	"encoding/json"
	"time"

	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/usecase/shared"
)

const jobKindNotification = "notification"

type recipient struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
	Locale   string `json:"locale,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// envelope is the wire form shared by every notification transport.
type envelope struct {
	Scenario         shared.Scenario `json:"scenario"`
	BookingUID       string          `json:"bookingUid"`
	Title            string          `json:"title"`
	StartTime        time.Time       `json:"startTime"`
	EndTime          time.Time       `json:"endTime"`
	Location         string          `json:"location,omitempty"`
	VideoCallURL     string          `json:"videoCallUrl,omitempty"`
	Organizer        recipient       `json:"organizer"`
	Recipients       []recipient     `json:"recipients"`
	SuppressAttendee bool            `json:"suppressAttendee"`
	SuppressHost     bool            `json:"suppressHost"`
	RescheduleReason string          `json:"rescheduleReason,omitempty"`
}

func toRecipient(p calendarevent.Person) recipient {
	return recipient{Name: p.Name, Email: p.Email, TimeZone: p.TimeZone, Locale: p.Locale, Phone: p.PhoneNumber}
}

func encode(msg shared.NotificationMessage) ([]byte, error) {
	evt := msg.Event
	env := envelope{
		Scenario:         msg.Scenario,
		BookingUID:       evt.UID,
		Title:            evt.Title,
		StartTime:        evt.StartTime,
		EndTime:          evt.EndTime,
		Location:         evt.Location,
		Organizer:        toRecipient(evt.Organizer),
		Recipients:       make([]recipient, 0, len(msg.Recipients)),
		SuppressAttendee: msg.SuppressAttendee,
		SuppressHost:     msg.SuppressHost,
		RescheduleReason: evt.RescheduleReason,
	}
	if evt.VideoCallData != nil {
		env.VideoCallURL = evt.VideoCallData.URL
	}
	for _, p := range msg.Recipients {
		env.Recipients = append(env.Recipients, toRecipient(p))
	}
	return json.Marshal(env)
}
