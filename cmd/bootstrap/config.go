package bootstrap

import (
	"booking-orchestrator/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		splitConfig,
	),
)

// SubConfigs lets adapters depend on the one section they read.
type SubConfigs struct {
	fx.Out

	Booking config.BookingConfig
	Redis   config.RedisConfig
	Kafka   config.KafkaConfig
	Webhook config.WebhookConfig
}

func splitConfig(cfg config.Config) SubConfigs {
	return SubConfigs{
		Booking: cfg.Booking,
		Redis:   cfg.Redis,
		Kafka:   cfg.Kafka,
		Webhook: cfg.Webhook,
	}
}
