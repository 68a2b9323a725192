package reminder

import (
	"time"

	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/webhook"
)

const (
	TypeWorkflowReminder  = "reminder:workflow"
	TypeMandatoryReminder = "reminder:mandatory"
	TypeWebhookDelivery   = "webhook:deliver"
)

type person struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
	Phone    string `json:"phone,omitempty"`
}

type reminderPayload struct {
	BookingUID string    `json:"bookingUid"`
	Title      string    `json:"title"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Organizer  person    `json:"organizer"`
	Attendees  []person  `json:"attendees"`

	WorkflowID int64  `json:"workflowId,omitempty"`
	StepID     int64  `json:"stepId,omitempty"`
	Action     string `json:"action,omitempty"`
	Template   string `json:"template,omitempty"`
	SendTo     string `json:"sendTo,omitempty"`
	SMSNumber  string `json:"smsNumber,omitempty"`
}

type webhookPayload struct {
	Subscriber webhook.Subscriber `json:"subscriber"`
	Payload    webhook.Payload    `json:"payload"`
}

func toPerson(p calendarevent.Person) person {
	return person{Name: p.Name, Email: p.Email, TimeZone: p.TimeZone, Phone: p.PhoneNumber}
}

func newReminderPayload(evt calendarevent.Event, bookingUID string) reminderPayload {
	p := reminderPayload{
		BookingUID: bookingUID,
		Title:      evt.Title,
		StartTime:  evt.StartTime,
		EndTime:    evt.EndTime,
		Organizer:  toPerson(evt.Organizer),
	}
	for _, a := range evt.Attendees {
		p.Attendees = append(p.Attendees, toPerson(a))
	}
	return p
}

func (p reminderPayload) recipients() []calendarevent.Person {
	switch {
	case p.SendTo != "":
		return []calendarevent.Person{{Email: p.SendTo, PhoneNumber: p.SendTo}}
	case p.SMSNumber != "" && p.Action == "SMS_NUMBER":
		return []calendarevent.Person{{PhoneNumber: p.SMSNumber}}
	case p.Action == "EMAIL_HOST":
		return []calendarevent.Person{fromPerson(p.Organizer)}
	}
	out := make([]calendarevent.Person, 0, len(p.Attendees))
	for _, a := range p.Attendees {
		out = append(out, fromPerson(a))
	}
	return out
}

func fromPerson(p person) calendarevent.Person {
	return calendarevent.Person{Name: p.Name, Email: p.Email, TimeZone: p.TimeZone, PhoneNumber: p.Phone}
}
