package eventtype

type WorkflowTrigger string

const (
	TriggerNewEvent        WorkflowTrigger = "NEW_EVENT"
	TriggerBeforeEvent     WorkflowTrigger = "BEFORE_EVENT"
	TriggerAfterEvent      WorkflowTrigger = "AFTER_EVENT"
	TriggerRescheduleEvent WorkflowTrigger = "RESCHEDULE_EVENT"
	TriggerEventCancelled  WorkflowTrigger = "EVENT_CANCELLED"
)

type WorkflowAction string

const (
	ActionEmailHost     WorkflowAction = "EMAIL_HOST"
	ActionEmailAttendee WorkflowAction = "EMAIL_ATTENDEE"
	ActionSMSAttendee   WorkflowAction = "SMS_ATTENDEE"
	ActionSMSNumber     WorkflowAction = "SMS_NUMBER"
	ActionEmailAddress  WorkflowAction = "EMAIL_ADDRESS"
)

type Workflow struct {
	ID      int64
	Name    string
	Trigger WorkflowTrigger
	// Offset from the event start (BEFORE_EVENT) or end (AFTER_EVENT), in minutes.
	OffsetMinutes int
	Steps         []WorkflowStep
}

type WorkflowStep struct {
	ID       int64
	Action   WorkflowAction
	Template string
	SendTo   string
}

func (w Workflow) hasAction(actions ...WorkflowAction) bool {
	for _, s := range w.Steps {
		for _, a := range actions {
			if s.Action == a {
				return true
			}
		}
	}
	return false
}

// AllowDisablingHostConfirmationEmails holds when a new-event workflow already emails the host.
func AllowDisablingHostConfirmationEmails(workflows []Workflow) bool {
	for _, w := range workflows {
		if w.Trigger == TriggerNewEvent && w.hasAction(ActionEmailHost) {
			return true
		}
	}
	return false
}

// AllowDisablingAttendeeConfirmationEmails holds when a new-event workflow already reaches the attendee.
func AllowDisablingAttendeeConfirmationEmails(workflows []Workflow) bool {
	for _, w := range workflows {
		if w.Trigger == TriggerNewEvent && w.hasAction(ActionEmailAttendee, ActionSMSAttendee) {
			return true
		}
	}
	return false
}
