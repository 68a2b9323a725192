package readstore

import (
	"context"
	"strings"

	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
)

// Entries are full addresses or "@domain". A logged-in user booking with their own
// address is never blocked.
const isEmailBlockedSQL = `
SELECT EXISTS (
    SELECT 1
    FROM blocked_emails b
    WHERE b.value = $1 OR b.value = $2
) AND NOT EXISTS (
    SELECT 1 FROM users u WHERE u.id = $3 AND lower(u.email) = $1
)`

type BlockListReadStore struct {
	db db.DBTX
}

func NewBlockListReadStore(dbtx db.DBTX) *BlockListReadStore {
	return &BlockListReadStore{db: dbtx}
}

func (r *BlockListReadStore) IsBlocked(ctx context.Context, userID *int64, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	domain := ""
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		domain = email[at:]
	}

	var caller int64
	if userID != nil {
		caller = *userID
	}

	var blocked bool
	if err := r.db.QueryRow(ctx, isEmailBlockedSQL, email, domain, caller).Scan(&blocked); err != nil {
		return false, infra.WrapRepoErr("failed to check blocked email", err)
	}
	return blocked, nil
}
