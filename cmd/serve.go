package main

import (
	"context"
	"log/slog"

	"booking-orchestrator/cmd/bootstrap"
	"booking-orchestrator/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booking HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd.Context(),
				bootstrap.Module,
				fx.Invoke(startServer),
			)
		},
	}
}

// @title           booking-orchestrator
// @version         1.0
// @description     Creates and reschedules bookings for event types.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()
			listenAddr := ":" + cfg.Server.Port
			logger.Info("starting server", "address", listenAddr, "mode", gin.Mode())
			go func() {
				if err := engine.Run(listenAddr); err != nil {
					logger.Error("server stopped with error", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			logger.Info("stopping server")
			return nil
		},
	})
}

// runApp starts an fx application and blocks until it is signalled to stop.
func runApp(ctx context.Context, opts ...fx.Option) error {
	app := fx.New(opts...)

	if err := app.Start(ctx); err != nil {
		slog.Error("failed to start application", "error", err)
		return err
	}

	<-app.Done()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop application", "error", err)
	}

	slog.Info("application stopped")
	return nil
}
