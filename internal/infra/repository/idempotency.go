package repository

import (
	"context"
	"time"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"
	"booking-orchestrator/internal/usecase/readmodel"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// an expired key is reclaimed by the new request
const tryInsertIdempotencyKeySQL = `
INSERT INTO idempotency_keys (key, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, 'processing', $4)
ON CONFLICT (key) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    status = 'processing',
    result_booking_uid = NULL,
    expires_at = EXCLUDED.expires_at,
    updated_at = now()
WHERE idempotency_keys.expires_at < now()`

const getIdempotencyKeySQL = `
SELECT key, endpoint, request_hash, status, result_booking_uid, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1`

const markIdempotencyKeyCompletedSQL = `
UPDATE idempotency_keys
SET status = 'completed', result_booking_uid = $2, updated_at = now()
WHERE key = $1`

const releaseIdempotencyKeySQL = `
DELETE FROM idempotency_keys
WHERE key = $1 AND status = 'processing'`

const deleteExpiredIdempotencyKeysSQL = `
DELETE FROM idempotency_keys
WHERE expires_at < now()`

type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{db: dbtx}
}

func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencyKeySQL, key, endpoint, requestHash, pgconv.TimeToPgtype(expiresAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID) (*readmodel.IdempotencyKey, error) {
	var (
		rm        readmodel.IdempotencyKey
		resultUID pgtype.Text
	)
	err := r.db.QueryRow(ctx, getIdempotencyKeySQL, key).Scan(
		&rm.Key, &rm.Endpoint, &rm.RequestHash, &rm.Status, &resultUID, &rm.ExpiresAt, &rm.CreatedAt, &rm.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}
	rm.ResultBookingUID = pgconv.StringPtrFromPgtype(resultUID)
	return &rm, nil
}

func (r *IdempotencyRepository) MarkCompleted(ctx context.Context, key uuid.UUID, bookingUID string) error {
	tag, err := r.db.Exec(ctx, markIdempotencyKeyCompletedSQL, key, bookingUID)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("idempotency key not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, key uuid.UUID) error {
	if _, err := r.db.Exec(ctx, releaseIdempotencyKeySQL, key); err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeysSQL)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
