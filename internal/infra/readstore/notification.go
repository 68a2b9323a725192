package readstore

import (
	"context"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/usecase/readmodel"

	"github.com/jackc/pgx/v5"
)

const getPendingNotificationJobsSQL = `
SELECT id, kind, topic, payload, run_at, attempts
FROM notification_jobs
WHERE status = 'queued' AND run_at <= now() AND attempts < $2
ORDER BY run_at, id
LIMIT $1`

type NotificationReadStore struct {
	db db.DBTX
}

func NewNotificationReadStore(dbtx db.DBTX) *NotificationReadStore {
	return &NotificationReadStore{db: dbtx}
}

func (s *NotificationReadStore) GetPendingJobs(ctx context.Context, limit, maxAttempts int32) ([]readmodel.PendingNotification, error) {
	rows, err := s.db.Query(ctx, getPendingNotificationJobsSQL, limit, maxAttempts)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get pending notification jobs", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[readmodel.PendingNotification])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan pending notification jobs", err)
	}
	return jobs, nil
}
