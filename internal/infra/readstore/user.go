package readstore

import (
	"context"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

// an empty org slug selects users outside any organization
const findUsersByUsernamesSQL = `
SELECT u.id, u.username, u.name, u.email, u.time_zone, u.locale, u.organization_id
FROM users u
LEFT JOIN teams o ON o.id = u.organization_id
WHERE u.username = ANY ($1::text[])
  AND (($2::text = '' AND u.organization_id IS NULL) OR o.slug = $2)
ORDER BY array_position($1::text[], u.username)`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

// FindByUsernames returns the users in the order the usernames were given.
func (r *UserReadStore) FindByUsernames(ctx context.Context, usernames []string, orgSlug string) ([]eventtype.User, error) {
	rows, err := r.db.Query(ctx, findUsersByUsernamesSQL, usernames, orgSlug)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find users by username", err)
	}
	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan users", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	creds, err := loadCredentials(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load user credentials", err)
	}
	calendars, err := loadDestinationCalendars(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load user destination calendars", err)
	}
	for i := range users {
		attachUserData(&users[i], creds, calendars)
	}
	return users, nil
}
