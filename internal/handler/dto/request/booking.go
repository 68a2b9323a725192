package request

import (
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"

	"github.com/jinzhu/copier"
)

const defaultLanguage = "en"

type RecurringDate struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required,gtfield=Start"`
}

type CreateBookingRequest struct {
	EventTypeID                    int64           `json:"eventTypeId" binding:"required,gt=0"`
	EventTypeSlug                  string          `json:"eventTypeSlug"`
	Start                          string          `json:"start" binding:"required"`
	End                            string          `json:"end"`
	TimeZone                       string          `json:"timeZone" binding:"required"`
	Language                       *string         `json:"language"`
	Responses                      map[string]any  `json:"responses" binding:"required"`
	Metadata                       map[string]any  `json:"metadata"`
	RescheduleUID                  string          `json:"rescheduleUid"`
	RecurringEventID               string          `json:"recurringEventId"`
	RecurringCount                 int             `json:"recurringCount" binding:"gte=0"`
	AllRecurringDates              []RecurringDate `json:"allRecurringDates" binding:"omitempty,dive"`
	NumSlotsToCheckForAvailability int             `json:"numSlotsToCheckForAvailability" binding:"gte=0"`
	NoEmail                        bool            `json:"noEmail"`
	DynamicUsernames               []string        `json:"user"`
	RoutedTeamMemberIDs            []int64         `json:"routedTeamMemberIds"`
	RoutingFormResponseID          *int64          `json:"routingFormResponseId"`
	HashedLink                     string          `json:"hashedLink"`
	DryRun                         bool            `json:"dryRun"`
}

// ToCommand maps the body onto the pipeline input. The query flag can only switch dry run on.
func (r CreateBookingRequest) ToCommand(source booking.CreationSource, dryRun bool) (commands.RawBookingRequest, error) {
	var raw commands.RawBookingRequest
	if err := copier.Copy(&raw, &r); err != nil {
		return commands.RawBookingRequest{}, errs.Wrap(err, "map booking request")
	}
	raw.Language = defaultLanguage
	if r.Language != nil && *r.Language != "" {
		raw.Language = *r.Language
	}
	raw.AllRecurringDates = make([]commands.TimeRange, 0, len(r.AllRecurringDates))
	for _, d := range r.AllRecurringDates {
		raw.AllRecurringDates = append(raw.AllRecurringDates, commands.TimeRange{Start: d.Start, End: d.End})
	}
	if raw.Responses == nil {
		raw.Responses = map[string]any{}
	}
	raw.CreationSource = source
	raw.DryRun = dryRun || r.DryRun
	return raw, nil
}
