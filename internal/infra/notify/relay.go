package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"booking-orchestrator/internal/usecase/readmodel"
	"booking-orchestrator/internal/usecase/shared"
)

const (
	JobStatusQueued = "queued"
	JobStatusSent   = "sent"
	JobStatusFailed = "failed"

	relayBatchSize   = 100
	relayMaxAttempts = 5
)

type pendingJobSource interface {
	GetPendingJobs(ctx context.Context, limit, maxAttempts int32) ([]readmodel.PendingNotification, error)
}

type publisher interface {
	Publish(ctx context.Context, key, scenario string, payload []byte) error
}

// OutboxRelay moves due notification jobs from Postgres to the broker.
type OutboxRelay struct {
	jobs      pendingJobSource
	uow       shared.UnitOfWork
	publisher publisher
	interval  time.Duration
}

func NewOutboxRelay(jobs pendingJobSource, uow shared.UnitOfWork, pub publisher, interval time.Duration) *OutboxRelay {
	return &OutboxRelay{jobs: jobs, uow: uow, publisher: pub, interval: interval}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if n, err := r.RelayOnce(ctx); err != nil {
			slog.ErrorContext(ctx, "outbox relay failed", "error", err.Error())
		} else if n > 0 {
			slog.InfoContext(ctx, "outbox relay published jobs", "count", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RelayOnce publishes one batch and reports how many jobs were sent.
func (r *OutboxRelay) RelayOnce(ctx context.Context) (int, error) {
	jobs, err := r.jobs.GetPendingJobs(ctx, relayBatchSize, relayMaxAttempts)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, job := range jobs {
		status, lastErr := JobStatusSent, (*string)(nil)
		if err := r.publisher.Publish(ctx, bookingUIDOf(job.Payload), job.Scenario, job.Payload); err != nil {
			msg := err.Error()
			lastErr = &msg
			status = JobStatusQueued
			if job.Attempts+1 >= relayMaxAttempts {
				status = JobStatusFailed
			}
			slog.WarnContext(ctx, "failed to publish notification job",
				"job_id", job.ID.String(),
				"attempt", job.Attempts+1,
				"error", msg)
		} else {
			sent++
		}

		err := r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Notifications().UpdateJobStatus(ctx, job.ID, status, lastErr)
		})
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func bookingUIDOf(payload []byte) string {
	var env struct {
		BookingUID string `json:"bookingUid"`
	}
	_ = json.Unmarshal(payload, &env)
	return env.BookingUID
}
