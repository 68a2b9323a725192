package shared

import (
	"log/slog"
)

// RequestScope travels through every pipeline stage of one booking request.
type RequestScope struct {
	Logger      *slog.Logger
	EventTypeID int64
	BookerEmail string
	DryRun      bool
}

func NewRequestScope(base *slog.Logger, eventTypeID int64, bookerEmail string, dryRun bool) RequestScope {
	if base == nil {
		base = slog.Default()
	}
	return RequestScope{
		Logger: base.With(
			slog.Int64("event_type_id", eventTypeID),
			slog.String("booker_email", bookerEmail),
			slog.Bool("dry_run", dryRun),
		),
		EventTypeID: eventTypeID,
		BookerEmail: bookerEmail,
		DryRun:      dryRun,
	}
}
