//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"booking-orchestrator/internal/infra/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, conn db.DBTX, username, email string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(context.Background(),
		"INSERT INTO users (username, name, email, time_zone) VALUES ($1, $2, $3, 'Europe/Berlin') RETURNING id",
		username, username+" host", email).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTestEventType inserts a personal event type owned by ownerID.
func CreateTestEventType(t *testing.T, conn db.DBTX, ownerID int64, slug string, length int) int64 {
	t.Helper()

	ctx := context.Background()
	var id int64
	err := conn.QueryRow(ctx,
		"INSERT INTO event_types (slug, title, length, owner_id, minimum_booking_notice) VALUES ($1, $2, $3, $4, 0) RETURNING id",
		slug, "Intro Call", length, ownerID).Scan(&id)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, "INSERT INTO event_type_users (event_type_id, user_id) VALUES ($1, $2)", id, ownerID)
	require.NoError(t, err)
	return id
}

func CreateTestBlockedEmail(t *testing.T, conn db.DBTX, value string) {
	t.Helper()

	_, err := conn.Exec(context.Background(), "INSERT INTO blocked_emails (value) VALUES ($1)", value)
	require.NoError(t, err)
}

func CreateTestBooking(t *testing.T, conn db.DBTX, uid string, eventTypeID, userID int64, start time.Time) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(context.Background(), `
		INSERT INTO bookings (uid, event_type_id, user_id, title, start_time, end_time, status, ical_uid, ical_sequence)
		VALUES ($1, $2, $3, 'Existing booking', $4, $5, 'accepted', $6, 0)
		RETURNING id`,
		uid, eventTypeID, userID, start, start.Add(30*time.Minute), uid+"@booking-orchestrator").Scan(&id)
	require.NoError(t, err)
	return id
}

func CountRows(t *testing.T, conn db.DBTX, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO teams (name, slug) VALUES ('Acme', 'acme')
		ON CONFLICT (slug) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
