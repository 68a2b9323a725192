package readstore

import (
	"context"
	"encoding/json"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const getEventTypeSQL = `
SELECT et.id, et.slug, et.title, et.description, et.event_name, et.length, et.multiple_durations,
       et.scheduling_type, et.requires_confirmation, et.owner_id,
       et.booking_fields, et.locations, et.workflows,
       et.minimum_booking_notice, et.period_type, et.period_days, et.period_start_date, et.period_end_date,
       et.schedule_time_zone, et.reschedule_with_same_round_robin_host, et.hide_calendar_notes, et.metadata,
       t.id, t.name, t.slug, t.parent_id,
       dc.integration, dc.external_id, dc.credential_id, dc.primary_email
FROM event_types et
LEFT JOIN teams t ON t.id = et.team_id
LEFT JOIN destination_calendars dc ON dc.event_type_id = et.id
WHERE et.id = $1`

const getEventTypeHostsSQL = `
SELECT h.is_fixed, h.priority, h.weight, h.schedule_id,
       u.id, u.username, u.name, u.email, u.time_zone, u.locale, u.organization_id
FROM hosts h
JOIN users u ON u.id = h.user_id
WHERE h.event_type_id = $1
ORDER BY h.is_fixed DESC, h.priority DESC, u.id`

const getEventTypeUsersSQL = `
SELECT u.id, u.username, u.name, u.email, u.time_zone, u.locale, u.organization_id
FROM event_type_users etu
JOIN users u ON u.id = etu.user_id
WHERE etu.event_type_id = $1
ORDER BY u.id`

const getUserCredentialsSQL = `
SELECT id, type, app_id, user_id, delegation_credential_id, invalid
FROM credentials
WHERE user_id = ANY ($1)
ORDER BY id`

const getUserDestinationCalendarsSQL = `
SELECT user_id, integration, external_id, credential_id, primary_email
FROM destination_calendars
WHERE user_id = ANY ($1)`

type EventTypeReadStore struct {
	db db.DBTX
}

func NewEventTypeReadStore(dbtx db.DBTX) *EventTypeReadStore {
	return &EventTypeReadStore{db: dbtx}
}

type bookingFieldRecord struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	Hidden    bool     `json:"hidden"`
	MaxLength int      `json:"maxLength"`
	Options   []string `json:"options"`
	Views     []string `json:"views"`
}

type locationRecord struct {
	Type         string `json:"type"`
	Address      string `json:"address"`
	Link         string `json:"link"`
	CredentialID *int64 `json:"credentialId"`
}

type workflowRecord struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Trigger       string `json:"trigger"`
	OffsetMinutes int    `json:"offsetMinutes"`
	Steps         []struct {
		ID       int64  `json:"id"`
		Action   string `json:"action"`
		Template string `json:"template"`
		SendTo   string `json:"sendTo"`
	} `json:"steps"`
}

// FindByID loads the event type with its hosts, their credentials and destination calendars.
func (r *EventTypeReadStore) FindByID(ctx context.Context, id int64) (*eventtype.EventType, error) {
	et, err := r.findEventType(ctx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("event type not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find event type", err)
	}

	if et.Hosts, err = r.findHosts(ctx, id); err != nil {
		return nil, infra.WrapRepoErr("failed to find event type hosts", err)
	}
	if et.Users, err = r.findUsers(ctx, id); err != nil {
		return nil, infra.WrapRepoErr("failed to find event type users", err)
	}

	ids := make([]int64, 0, len(et.Hosts)+len(et.Users))
	for _, h := range et.Hosts {
		ids = append(ids, h.User.ID)
	}
	for _, u := range et.Users {
		ids = append(ids, u.ID)
	}
	if len(ids) == 0 {
		return et, nil
	}

	creds, err := loadCredentials(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load host credentials", err)
	}
	calendars, err := loadDestinationCalendars(ctx, r.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load host destination calendars", err)
	}
	for i := range et.Hosts {
		attachUserData(&et.Hosts[i].User, creds, calendars)
	}
	for i := range et.Users {
		attachUserData(&et.Users[i], creds, calendars)
	}
	return et, nil
}

func (r *EventTypeReadStore) findEventType(ctx context.Context, id int64) (*eventtype.EventType, error) {
	var (
		et                               eventtype.EventType
		durations                        []int32
		schedulingType, periodType       string
		ownerID                          pgtype.Int8
		fieldsJSON, locJSON, wfJSON      []byte
		metaJSON                         []byte
		periodStart, periodEnd           pgtype.Timestamptz
		teamID, teamParent               pgtype.Int8
		teamName, teamSlug               pgtype.Text
		dcIntegration, dcExternal, dcPri pgtype.Text
		dcCredential                     pgtype.Int8
	)
	err := r.db.QueryRow(ctx, getEventTypeSQL, id).Scan(
		&et.ID, &et.Slug, &et.Title, &et.Description, &et.EventName, &et.Length, &durations,
		&schedulingType, &et.RequiresConfirmation, &ownerID,
		&fieldsJSON, &locJSON, &wfJSON,
		&et.MinimumBookingNotice, &periodType, &et.PeriodDays, &periodStart, &periodEnd,
		&et.ScheduleTimeZone, &et.RescheduleWithSameRoundRobinHost, &et.HideCalendarNotes, &metaJSON,
		&teamID, &teamName, &teamSlug, &teamParent,
		&dcIntegration, &dcExternal, &dcCredential, &dcPri,
	)
	if err != nil {
		return nil, err
	}

	et.SchedulingType = eventtype.SchedulingType(schedulingType)
	et.PeriodType = eventtype.PeriodType(periodType)
	et.OwnerID = pgconv.Int8PtrFromPgtype(ownerID)
	et.PeriodStartDate = pgconv.TimePtrFromPgtype(periodStart)
	et.PeriodEndDate = pgconv.TimePtrFromPgtype(periodEnd)
	for _, d := range durations {
		et.MultipleDurations = append(et.MultipleDurations, int(d))
	}
	if teamID.Valid {
		et.Team = &eventtype.Team{
			ID:       teamID.Int64,
			Name:     teamName.String,
			Slug:     teamSlug.String,
			ParentID: pgconv.Int8PtrFromPgtype(teamParent),
		}
	}
	if dcIntegration.Valid {
		et.DestinationCalendar = &eventtype.DestinationCalendar{
			Integration:  dcIntegration.String,
			ExternalID:   dcExternal.String,
			CredentialID: pgconv.Int8PtrFromPgtype(dcCredential),
			PrimaryEmail: dcPri.String,
		}
	}

	if err := decodeEventTypeJSON(&et, fieldsJSON, locJSON, wfJSON, metaJSON); err != nil {
		return nil, err
	}
	return &et, nil
}

func decodeEventTypeJSON(et *eventtype.EventType, fieldsJSON, locJSON, wfJSON, metaJSON []byte) error {
	var fields []bookingFieldRecord
	if err := json.Unmarshal(fieldsJSON, &fields); err != nil {
		return errs.Wrap(err, "decode booking fields")
	}
	for _, f := range fields {
		views := make([]eventtype.View, len(f.Views))
		for i, v := range f.Views {
			views[i] = eventtype.View(v)
		}
		et.BookingFields = append(et.BookingFields, eventtype.BookingField{
			Name:      f.Name,
			Type:      eventtype.FieldType(f.Type),
			Label:     f.Label,
			Required:  f.Required,
			Hidden:    f.Hidden,
			MaxLength: f.MaxLength,
			Options:   f.Options,
			Views:     views,
		})
	}

	var locations []locationRecord
	if err := json.Unmarshal(locJSON, &locations); err != nil {
		return errs.Wrap(err, "decode locations")
	}
	for _, l := range locations {
		et.Locations = append(et.Locations, eventtype.Location(l))
	}

	var workflows []workflowRecord
	if err := json.Unmarshal(wfJSON, &workflows); err != nil {
		return errs.Wrap(err, "decode workflows")
	}
	for _, w := range workflows {
		wf := eventtype.Workflow{
			ID:            w.ID,
			Name:          w.Name,
			Trigger:       eventtype.WorkflowTrigger(w.Trigger),
			OffsetMinutes: w.OffsetMinutes,
		}
		for _, s := range w.Steps {
			wf.Steps = append(wf.Steps, eventtype.WorkflowStep{
				ID:       s.ID,
				Action:   eventtype.WorkflowAction(s.Action),
				Template: s.Template,
				SendTo:   s.SendTo,
			})
		}
		et.Workflows = append(et.Workflows, wf)
	}

	if err := json.Unmarshal(metaJSON, &et.Metadata); err != nil {
		return errs.Wrap(err, "decode metadata")
	}
	return nil
}

func (r *EventTypeReadStore) findHosts(ctx context.Context, id int64) ([]eventtype.Host, error) {
	rows, err := r.db.Query(ctx, getEventTypeHostsSQL, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (eventtype.Host, error) {
		var (
			h          eventtype.Host
			priority   int32
			weight     int32
			scheduleID pgtype.Int8
			orgID      pgtype.Int8
		)
		err := row.Scan(&h.IsFixed, &priority, &weight, &scheduleID,
			&h.User.ID, &h.User.Username, &h.User.Name, &h.User.Email, &h.User.TimeZone, &h.User.Locale, &orgID)
		h.Priority = int(priority)
		h.Weight = int(weight)
		h.ScheduleID = pgconv.Int8PtrFromPgtype(scheduleID)
		h.User.OrganizationID = pgconv.Int8PtrFromPgtype(orgID)
		return h, err
	})
}

func (r *EventTypeReadStore) findUsers(ctx context.Context, id int64) ([]eventtype.User, error) {
	rows, err := r.db.Query(ctx, getEventTypeUsersSQL, id)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanUser)
}

func scanUser(row pgx.CollectableRow) (eventtype.User, error) {
	var (
		u     eventtype.User
		orgID pgtype.Int8
	)
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.TimeZone, &u.Locale, &orgID)
	u.OrganizationID = pgconv.Int8PtrFromPgtype(orgID)
	return u, err
}

func loadCredentials(ctx context.Context, dbtx db.DBTX, userIDs []int64) (map[int64][]eventtype.Credential, error) {
	rows, err := dbtx.Query(ctx, getUserCredentialsSQL, userIDs)
	if err != nil {
		return nil, err
	}
	creds, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (eventtype.Credential, error) {
		var (
			c          eventtype.Credential
			userID     pgtype.Int8
			delegation pgtype.Text
		)
		err := row.Scan(&c.ID, &c.Type, &c.AppID, &userID, &delegation, &c.Invalid)
		c.UserID = pgconv.Int8PtrFromPgtype(userID)
		c.DelegationCredentialID = pgconv.StringPtrFromPgtype(delegation)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64][]eventtype.Credential)
	for _, c := range creds {
		if c.UserID != nil {
			byUser[*c.UserID] = append(byUser[*c.UserID], c)
		}
	}
	return byUser, nil
}

func loadDestinationCalendars(ctx context.Context, dbtx db.DBTX, userIDs []int64) (map[int64]eventtype.DestinationCalendar, error) {
	rows, err := dbtx.Query(ctx, getUserDestinationCalendarsSQL, userIDs)
	if err != nil {
		return nil, err
	}
	type userCalendar struct {
		userID int64
		cal    eventtype.DestinationCalendar
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (userCalendar, error) {
		var (
			uc   userCalendar
			cred pgtype.Int8
		)
		err := row.Scan(&uc.userID, &uc.cal.Integration, &uc.cal.ExternalID, &cred, &uc.cal.PrimaryEmail)
		uc.cal.CredentialID = pgconv.Int8PtrFromPgtype(cred)
		return uc, err
	})
	if err != nil {
		return nil, err
	}
	out := make(map[int64]eventtype.DestinationCalendar, len(list))
	for _, uc := range list {
		out[uc.userID] = uc.cal
	}
	return out, nil
}

func attachUserData(u *eventtype.User, creds map[int64][]eventtype.Credential, calendars map[int64]eventtype.DestinationCalendar) {
	u.Credentials = creds[u.ID]
	if cal, ok := calendars[u.ID]; ok {
		c := cal
		u.DestinationCalendar = &c
	}
}
