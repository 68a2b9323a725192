package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/infra/repository"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// PostgresUoW runs booking writes (new booking, superseded original, idempotency record, outbox rows)
// in one transaction and replays the whole closure on serialization failures and deadlocks.
type PostgresUoW struct {
	pool       txBeginner
	maxRetries int
	base       time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewPostgresUoW(pool *pgxpool.Pool, cfg config.Config) *PostgresUoW {
	return newPostgresUoW(pool, cfg.DB.TxMaxRetries, cfg.DB.TxRetryBase)
}

func newPostgresUoW(pool txBeginner, maxRetries int, base time.Duration) *PostgresUoW {
	return &PostgresUoW{pool: pool, maxRetries: max(0, maxRetries), base: base, sleep: sleepCtx}
}

// Within uses ReadCommitted; the bookings uid constraint and the idempotency key primary key carry the conflicts.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	var err error
	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		if err = u.runOnce(ctx, opts, fn); err == nil {
			return nil
		}
		if !isRetryableError(err) {
			return err
		}
		if attempt == u.maxRetries {
			break
		}

		wait := backoff(attempt, u.base)
		slog.Warn("retrying booking transaction",
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())
		if sleepErr := u.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
	}

	slog.Error("booking transaction failed after max retries", "attempts", u.maxRetries+1, "error", err.Error())
	return errs.Mark(err, errMaxRetriesExceeded)
}

// runOnce owns exactly one pgx.Tx so a retry never leaks the previous connection.
func (u *PostgresUoW) runOnce(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rbErr := pgxTx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("rollback failed", "error", rbErr.Error())
		}
	}()

	if err := fn(ctx, &pgTx{dbtx: pgxTx}); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func backoff(attempt int, base time.Duration) time.Duration {
	wait := time.Duration(1<<attempt) * base
	if jitter := int64(wait / 5); jitter > 0 {
		wait += time.Duration(rand.Int64N(jitter))
	}
	return wait
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx db.DBTX

	bookingRepo      shared.BookingRepository
	notificationRepo shared.NotificationRepository
	idempotencyRepo  shared.IdempotencyRepository
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.dbtx)
	}
	return t.notificationRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.dbtx)
	}
	return t.idempotencyRepo
}
