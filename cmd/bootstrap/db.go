package bootstrap

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
		func(pool *pgxpool.Pool) db.DBTX { return pool },
	),
	fx.Invoke(autoMigrate),
)

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}

// autoMigrate runs before any component starts so stores never see an old schema.
func autoMigrate(lc fx.Lifecycle, pool *pgxpool.Pool, cfg config.Config, logger *slog.Logger) {
	if !cfg.DB.AutoMigrate {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			migrator, err := db.NewMigrator(pool)
			if err != nil {
				return err
			}
			defer migrator.Close()
			if err := migrator.Up(ctx); err != nil {
				return errs.Wrap(err, "auto migrate")
			}
			logger.Info("database schema is up to date", "database", cfg.DB.DBName)
			return nil
		},
	})
}
