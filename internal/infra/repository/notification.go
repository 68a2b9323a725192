package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJobSQL = `
INSERT INTO notification_jobs (id, kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, 'queued')`

const updateNotificationJobStatusSQL = `
UPDATE notification_jobs
SET status = $2, last_error = $3, attempts = attempts + 1, updated_at = now()
WHERE id = $1`

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx, createNotificationJobSQL,
		uuid.New(),
		kind,
		topic,
		payload,
		pgtype.Timestamptz{Time: runAt, Valid: true},
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

func (r *NotificationRepository) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string, lastError *string) error {
	var lastErr pgtype.Text
	if lastError != nil {
		lastErr = pgtype.Text{String: *lastError, Valid: true}
	}
	tag, err := r.db.Exec(ctx, updateNotificationJobStatusSQL, jobID, status, lastErr)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	return nil
}
