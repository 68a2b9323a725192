package commands

import (
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"

	"github.com/google/uuid"
)

type TimeRange struct {
	Start time.Time
	End   time.Time
}

// RawBookingRequest is the booker's input before validation.
type RawBookingRequest struct {
	EventTypeID                    int64
	EventTypeSlug                  string
	Start                          string
	End                            string
	TimeZone                       string
	Language                       string
	Responses                      map[string]any
	Metadata                       map[string]any
	RescheduleUID                  string
	RecurringEventID               string
	RecurringCount                 int
	AllRecurringDates              []TimeRange
	NumSlotsToCheckForAvailability int
	NoEmail                        bool
	DynamicUsernames               []string
	RoutedTeamMemberIDs            []int64
	RoutingFormResponseID          *int64
	HashedLink                     string
	CreationSource                 booking.CreationSource
	DryRun                         bool
}

// CallerContext describes who is calling and how.
type CallerContext struct {
	UserID           *int64
	PlatformClientID *string
	DryRun           bool
	ForcedSlug       string
	Hostname         string
	IdempotencyKey   *uuid.UUID
}

func (c CallerContext) IsPlatform() bool {
	return c.PlatformClientID != nil
}

type ValidatedBookingData struct {
	View                eventtype.View
	Start               time.Time
	End                 time.Time
	TimeZone            string
	Language            string
	Name                string
	Email               string
	AttendeePhoneNumber string
	Guests              []string
	Location            string
	Notes               string
	RescheduleReason    string
	SMSReminderNumber   string
	Responses           map[string]any
	Metadata            map[string]any
}

type BookingResult struct {
	UID                string
	Booking            *booking.Booking
	Event              calendarevent.Event
	IntegrationResults []calendarevent.IntegrationResult
	ReferencesToCreate []booking.Reference
	VideoCallURL       string
	Metadata           calendarevent.VideoMetadata
	IsDryRun           bool
	// Replayed is set when an earlier request with the same idempotency key produced this booking.
	Replayed bool
}
