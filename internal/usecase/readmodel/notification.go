package readmodel

import (
	"time"

	"github.com/google/uuid"
)

// PendingNotification is a queued outbox job whose run time has passed.
type PendingNotification struct {
	ID       uuid.UUID
	Kind     string
	Scenario string
	Payload  []byte
	RunAt    time.Time
	Attempts int32
}
