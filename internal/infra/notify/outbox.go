package notify

import (
	"context"

	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"
)

// OutboxChannel stores each message as a notification job; the worker relays due jobs.
type OutboxChannel struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewOutboxChannel(uow shared.UnitOfWork, clk clock.Clock) *OutboxChannel {
	return &OutboxChannel{uow: uow, clock: clk}
}

func (c *OutboxChannel) Send(ctx context.Context, msg shared.NotificationMessage) error {
	payload, err := encode(msg)
	if err != nil {
		return errs.Wrap(err, "encode notification")
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Notifications().CreateJob(ctx, jobKindNotification, string(msg.Scenario), payload, c.clock.Now())
	})
}
