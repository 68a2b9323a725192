package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/readmodel"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	idempotencyEndpoint = "POST /api/bookings"
	idempotencyTTL      = 24 * time.Hour
)

// IdempotencyGuard deduplicates booking requests that carry an Idempotency-Key.
type IdempotencyGuard struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewIdempotencyGuard(uow shared.UnitOfWork, clk clock.Clock) *IdempotencyGuard {
	return &IdempotencyGuard{uow: uow, clock: clk}
}

// Claim returns "" when this request took the key and should run the pipeline, or the uid
// of the booking an earlier request with key produced.
func (g *IdempotencyGuard) Claim(ctx context.Context, key uuid.UUID, requestHash string) (string, error) {
	var (
		claimed  bool
		existing *readmodel.IdempotencyKey
	)
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Idempotency()
		var err error
		claimed, err = repo.TryInsert(ctx, key, idempotencyEndpoint, requestHash, g.clock.Now().Add(idempotencyTTL))
		if err != nil || claimed {
			return err
		}
		existing, err = repo.Get(ctx, key)
		return err
	})
	if err != nil {
		return "", errs.Wrap(err, "claim idempotency key")
	}
	if claimed {
		return "", nil
	}

	if existing.RequestHash != requestHash || existing.Endpoint != idempotencyEndpoint {
		return "", ErrIdempotencyKeyReused
	}
	switch existing.Status {
	case readmodel.IdempotencyCompleted:
		if existing.ResultBookingUID == nil {
			return "", errs.New("completed idempotency key has no booking uid")
		}
		return *existing.ResultBookingUID, nil
	case readmodel.IdempotencyProcessing:
		return "", ErrIdempotencyInProgress
	default:
		return "", errs.Newf("invalid idempotency key status %q", existing.Status)
	}
}

// Release frees a key whose request failed before completing, so the client can retry.
func (g *IdempotencyGuard) Release(ctx context.Context, key uuid.UUID) error {
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, key)
	})
	return errs.Wrap(err, "release idempotency key")
}

// Sweep drops expired keys.
func (g *IdempotencyGuard) Sweep(ctx context.Context) (int64, error) {
	var n int64
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		n, err = tx.Idempotency().DeleteExpired(ctx)
		return err
	})
	return n, err
}

func requestHash(raw RawBookingRequest, eventTypeID int64) (string, error) {
	raw.EventTypeID = eventTypeID
	b, err := json.Marshal(raw)
	if err != nil {
		return "", errs.Wrap(err, "hash booking request")
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
