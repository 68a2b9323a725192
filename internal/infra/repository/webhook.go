package repository

import (
	"context"

	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// mirrors webhook.Filter.Matches
const findSubscribersSQL = `
SELECT id, subscriber_url, secret, payload_template, COALESCE(app_id, ''), active, event_triggers,
       user_id, team_id, org_id, oauth_client_id, event_type_id
FROM webhooks
WHERE active
  AND $6::text = ANY (event_triggers)
  AND (event_type_id IS NULL OR event_type_id = $5)
  AND (
        ($1::bigint IS NOT NULL AND user_id = $1)
     OR ($2::bigint IS NOT NULL AND team_id = $2)
     OR ($3::bigint IS NOT NULL AND org_id = $3)
     OR ($4::text IS NOT NULL AND oauth_client_id = $4)
     OR (event_type_id IS NOT NULL AND user_id IS NULL AND team_id IS NULL AND org_id IS NULL AND oauth_client_id IS NULL)
  )
ORDER BY id`

type WebhookRepository struct {
	db db.DBTX
}

func NewWebhookRepository(dbtx db.DBTX) *WebhookRepository {
	return &WebhookRepository{db: dbtx}
}

func (r *WebhookRepository) FindSubscribers(ctx context.Context, f webhook.Filter) ([]webhook.Subscriber, error) {
	var oauth pgtype.Text
	if f.OAuthClientID != nil {
		oauth = pgtype.Text{String: *f.OAuthClientID, Valid: true}
	}
	rows, err := r.db.Query(ctx, findSubscribersSQL,
		pgconv.Int8PtrToPgtype(f.UserID),
		pgconv.Int8PtrToPgtype(f.TeamID),
		pgconv.Int8PtrToPgtype(f.OrgID),
		oauth,
		pgconv.Int8PtrToPgtype(f.EventTypeID),
		string(f.Trigger),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query webhook subscribers", err)
	}

	subs, err := pgx.CollectRows(rows, scanSubscriber)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan webhook subscribers", err)
	}
	return subs, nil
}

func scanSubscriber(row pgx.CollectableRow) (webhook.Subscriber, error) {
	var (
		s                           webhook.Subscriber
		triggers                    []string
		userID, teamID, orgID, etID pgtype.Int8
		oauth                       pgtype.Text
	)
	if err := row.Scan(&s.ID, &s.SubscriberURL, &s.Secret, &s.PayloadTemplate, &s.AppID, &s.Active, &triggers,
		&userID, &teamID, &orgID, &oauth, &etID); err != nil {
		return webhook.Subscriber{}, err
	}
	s.Triggers = make([]webhook.Trigger, len(triggers))
	for i, t := range triggers {
		s.Triggers[i] = webhook.Trigger(t)
	}
	s.UserID = pgconv.Int8PtrFromPgtype(userID)
	s.TeamID = pgconv.Int8PtrFromPgtype(teamID)
	s.OrgID = pgconv.Int8PtrFromPgtype(orgID)
	s.EventTypeID = pgconv.Int8PtrFromPgtype(etID)
	s.OAuthClientID = pgconv.StringPtrFromPgtype(oauth)
	return s, nil
}
