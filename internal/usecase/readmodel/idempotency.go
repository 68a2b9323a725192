package readmodel

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyKey struct {
	Key              uuid.UUID
	Endpoint         string
	RequestHash      string
	Status           string
	ResultBookingUID *string
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
