package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"booking-orchestrator/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrator applies the embedded goose migrations through the pgx pool.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(pool *pgxpool.Pool) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool)}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	slog.Info("applying database migrations")
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	slog.Info("migrations applied", "version", version)
	return nil
}

// Close releases the sql.DB wrapper; the pool stays open.
func (m *Migrator) Close() error {
	return m.db.Close()
}
