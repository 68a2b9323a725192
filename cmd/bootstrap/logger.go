package bootstrap

import (
	"log/slog"

	"booking-orchestrator/internal/handler/middleware"
	"booking-orchestrator/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		func(cfg config.Config) *middleware.Logger { return middleware.NewLogger(cfg.Log) },
		(*middleware.Logger).GetSlogLogger,
	),
	fx.Invoke(func(logger *slog.Logger, cfg config.Config) {
		logger.Info("logger initialized", "level", cfg.Log.Level, "notify_transport", cfg.Notify.Transport)
	}),
)
