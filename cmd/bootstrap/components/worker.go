package components

import (
	"context"
	"log/slog"
	"time"

	"booking-orchestrator/internal/infra/notify"
	"booking-orchestrator/internal/infra/readstore"
	"booking-orchestrator/internal/infra/reminder"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/shared"

	"go.uber.org/fx"
)

const (
	relayInterval            = 5 * time.Second
	idempotencySweepInterval = time.Hour
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		clock.NewRealClock,
		reminder.NewWorker,
		NewOutboxRelay,
		commands.NewIdempotencyGuard,
	),
	fx.Invoke(startWorker, startOutboxRelay, startIdempotencySweeper),
)

func NewOutboxRelay(jobs *readstore.NotificationReadStore, uow shared.UnitOfWork, kc *notify.KafkaChannel) *notify.OutboxRelay {
	return notify.NewOutboxRelay(jobs, uow, kc, relayInterval)
}

func startWorker(lc fx.Lifecycle, w *reminder.Worker) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			slog.Info("starting task worker")
			return w.Start()
		},
		OnStop: func(_ context.Context) error {
			slog.Info("stopping task worker")
			w.Shutdown()
			return nil
		},
	})
}

func startOutboxRelay(lc fx.Lifecycle, cfg config.Config, relay *notify.OutboxRelay) {
	if cfg.Notify.Transport != config.TransportOutbox {
		slog.Info("outbox relay disabled", "transport", cfg.Notify.Transport)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				relay.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}

func startIdempotencySweeper(lc fx.Lifecycle, guard *commands.IdempotencyGuard) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(idempotencySweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						n, err := guard.Sweep(ctx)
						if err != nil {
							slog.Error("idempotency key sweep failed", "error", err.Error())
							continue
						}
						if n > 0 {
							slog.Info("expired idempotency keys removed", "count", n)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
