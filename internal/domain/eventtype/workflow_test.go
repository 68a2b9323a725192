//go:build unit

package eventtype_test

import (
	"testing"

	"booking-orchestrator/internal/domain/eventtype"

	"github.com/stretchr/testify/assert"
)

func TestConfirmationEmailSuppression(t *testing.T) {
	workflow := func(trigger eventtype.WorkflowTrigger, actions ...eventtype.WorkflowAction) eventtype.Workflow {
		w := eventtype.Workflow{ID: 1, Trigger: trigger}
		for i, a := range actions {
			w.Steps = append(w.Steps, eventtype.WorkflowStep{ID: int64(i + 1), Action: a})
		}
		return w
	}

	testCases := []struct {
		name         string
		workflows    []eventtype.Workflow
		wantHost     bool
		wantAttendee bool
	}{
		{name: "no workflows"},
		{
			name:      "new event emails host",
			workflows: []eventtype.Workflow{workflow(eventtype.TriggerNewEvent, eventtype.ActionEmailHost)},
			wantHost:  true,
		},
		{
			name:         "new event texts attendee",
			workflows:    []eventtype.Workflow{workflow(eventtype.TriggerNewEvent, eventtype.ActionSMSAttendee)},
			wantAttendee: true,
		},
		{
			name:      "before event reminder does not count",
			workflows: []eventtype.Workflow{workflow(eventtype.TriggerBeforeEvent, eventtype.ActionEmailHost, eventtype.ActionEmailAttendee)},
		},
		{
			name: "both across workflows",
			workflows: []eventtype.Workflow{
				workflow(eventtype.TriggerNewEvent, eventtype.ActionEmailAttendee),
				workflow(eventtype.TriggerNewEvent, eventtype.ActionSMSNumber, eventtype.ActionEmailHost),
			},
			wantHost:     true,
			wantAttendee: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wantHost, eventtype.AllowDisablingHostConfirmationEmails(tc.workflows))
			assert.Equal(t, tc.wantAttendee, eventtype.AllowDisablingAttendeeConfirmationEmails(tc.workflows))
		})
	}
}

func TestEventType_HostTimeZone(t *testing.T) {
	organizer := &eventtype.User{TimeZone: "Asia/Tokyo"}

	assert.Equal(t, "Europe/Paris", (&eventtype.EventType{ScheduleTimeZone: "Europe/Paris"}).HostTimeZone(organizer))
	assert.Equal(t, "Asia/Tokyo", (&eventtype.EventType{}).HostTimeZone(organizer))
	assert.Equal(t, "UTC", (&eventtype.EventType{}).HostTimeZone(nil))
}

func TestCredential_Kind(t *testing.T) {
	assert.True(t, eventtype.Credential{Type: "google_calendar"}.IsCalendar())
	assert.True(t, eventtype.Credential{Type: "zoom_video"}.IsVideo())
	assert.True(t, eventtype.Credential{Type: "msteams_conferencing"}.IsVideo())
	assert.False(t, eventtype.Credential{Type: "stripe_payment"}.IsCalendar())
	assert.False(t, eventtype.Credential{Type: "stripe_payment"}.IsVideo())
}
