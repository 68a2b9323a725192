package components

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/infra/integration"
	"booking-orchestrator/internal/infra/notify"
	"booking-orchestrator/internal/infra/reminder"
	"booking-orchestrator/internal/infra/webhook"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

var MessagingModule = fx.Module("messaging",
	fx.Provide(
		NewAsynqClient,
		NewKafkaWriter,
		NewKafkaChannel,
		NewNotificationChannel,
		fx.Annotate(
			NewReminderScheduler,
			fx.As(new(shared.ReminderScheduler)),
			fx.As(new(shared.WebhookScheduler)),
		),
		fx.Annotate(
			webhook.NewSender,
			fx.As(new(shared.WebhookTransport)),
		),
		fx.Annotate(
			integration.NewManager,
			fx.As(new(shared.IntegrationLayer)),
		),
	),
)

func NewAsynqClient(lc fx.Lifecycle, cfg config.RedisConfig) *asynq.Client {
	client := reminder.NewRedisClient(cfg)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	return client
}

func NewKafkaWriter(lc fx.Lifecycle, cfg config.KafkaConfig) *kafka.Writer {
	w := notify.NewKafkaWriter(cfg)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return w.Close()
		},
	})
	return w
}

func NewKafkaChannel(w *kafka.Writer) *notify.KafkaChannel {
	return notify.NewKafkaChannel(w)
}

func NewReminderScheduler(client *asynq.Client, clk clock.Clock, redis config.RedisConfig, booking config.BookingConfig) *reminder.Scheduler {
	return reminder.NewScheduler(client, clk, redis, booking)
}

// NewNotificationChannel picks the transport from NOTIFY_TRANSPORT.
func NewNotificationChannel(cfg config.Config, uow shared.UnitOfWork, clk clock.Clock, kc *notify.KafkaChannel) shared.NotificationChannel {
	if cfg.Notify.Transport == config.TransportKafka {
		slog.Info("notifications published to kafka", "topic", cfg.Kafka.NotificationTopic)
		return kc
	}
	slog.Info("notifications written to the postgres outbox")
	return notify.NewOutboxChannel(uow, clk)
}
