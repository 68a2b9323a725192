package readstore

import (
	"context"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"

	"github.com/jackc/pgx/v5"
)

const getOrgDelegationCredentialsSQL = `
SELECT id, type, app_id
FROM delegation_credentials
WHERE organization_id = $1 AND enabled
ORDER BY id`

// In-memory credentials derived from a delegation credential have no row id.
const delegatedCredentialID int64 = -1

type DelegationReadStore struct {
	db db.DBTX
}

func NewDelegationReadStore(dbtx db.DBTX) *DelegationReadStore {
	return &DelegationReadStore{db: dbtx}
}

type delegationRow struct {
	ID    string
	Type  string
	AppID string
}

// EnrichUsers appends the organization's enabled delegation credentials to every user
// that does not already carry one from the same delegation.
func (r *DelegationReadStore) EnrichUsers(ctx context.Context, orgID *int64, users []eventtype.User) ([]eventtype.User, error) {
	if orgID == nil || len(users) == 0 {
		return users, nil
	}

	rows, err := r.db.Query(ctx, getOrgDelegationCredentialsSQL, *orgID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query delegation credentials", err)
	}
	delegations, err := pgx.CollectRows(rows, pgx.RowToStructByPos[delegationRow])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan delegation credentials", err)
	}
	if len(delegations) == 0 {
		return users, nil
	}

	out := make([]eventtype.User, len(users))
	for i, u := range users {
		out[i] = u
		if u.OrganizationID == nil || *u.OrganizationID != *orgID {
			continue
		}
		creds := append([]eventtype.Credential(nil), u.Credentials...)
		for _, d := range delegations {
			if hasDelegation(creds, d.ID) {
				continue
			}
			userID := u.ID
			delegationID := d.ID
			creds = append(creds, eventtype.Credential{
				ID:                     delegatedCredentialID,
				Type:                   d.Type,
				AppID:                  d.AppID,
				UserID:                 &userID,
				DelegationCredentialID: &delegationID,
			})
		}
		out[i].Credentials = creds
	}
	return out, nil
}

func hasDelegation(creds []eventtype.Credential, id string) bool {
	for _, c := range creds {
		if c.DelegationCredentialID != nil && *c.DelegationCredentialID == id {
			return true
		}
	}
	return false
}
