package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"golang.org/x/sync/errgroup"
)

const maxParallelApps = 4

var ErrAppRequestFailed = errs.New("integration app request failed")

// Manager talks to one HTTP adapter per app type, mounted at {base}/{credential type}.
type Manager struct {
	http *http.Client
	base string
}

func NewManager(cfg config.BookingConfig) *Manager {
	return &Manager{
		http: &http.Client{Timeout: cfg.IntegrationTimeout},
		base: strings.TrimRight(cfg.IntegrationBaseURL, "/"),
	}
}

type eventRequest struct {
	UID                  string            `json:"uid"`
	Title                string            `json:"title"`
	Description          string            `json:"description,omitempty"`
	StartTime            time.Time         `json:"startTime"`
	EndTime              time.Time         `json:"endTime"`
	Organizer            personPayload     `json:"organizer"`
	Attendees            []personPayload   `json:"attendees"`
	Location             string            `json:"location,omitempty"`
	ICalUID              string            `json:"iCalUID,omitempty"`
	ExternalCalendarID   string            `json:"externalCalendarId,omitempty"`
	VideoCallData        *videoCallPayload `json:"videoCallData,omitempty"`
	HideCalendarNotes    bool              `json:"hideCalendarNotes,omitempty"`
	RescheduleReason     string            `json:"rescheduleReason,omitempty"`
	DelegationCredential string            `json:"delegationCredentialId,omitempty"`
}

type personPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	TimeZone string `json:"timeZone"`
}

type videoCallPayload struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Password string `json:"password"`
	URL      string `json:"url"`
}

type eventResponse struct {
	ID                 string   `json:"id"`
	UID                string   `json:"uid"`
	ICalUID            string   `json:"iCalUID"`
	URL                string   `json:"url"`
	Password           string   `json:"password"`
	HangoutLink        string   `json:"hangoutLink"`
	ExternalCalendarID string   `json:"externalCalendarId"`
	EntryPoints        []string `json:"entryPoints"`
	ConferenceData     bool     `json:"conferenceData"`
	Warnings           []string `json:"warnings"`
}

// job is one call against one app on behalf of one credential.
type job struct {
	cred     eventtype.Credential
	calendar string
	existing *booking.Reference
}

func (m *Manager) Create(ctx context.Context, target shared.IntegrationTarget, evt calendarevent.Event) (calendarevent.Outcome, error) {
	return m.run(ctx, planJobs(target, evt, nil, false), evt), nil
}

func (m *Manager) Reschedule(ctx context.Context, target shared.IntegrationTarget, evt calendarevent.Event, req shared.RescheduleRequest) (calendarevent.Outcome, error) {
	jobs := planJobs(target, evt, req.OriginalReferences, req.ChangedOrganizer)
	var cleanup []calendarevent.CleanupFailure
	if req.ChangedOrganizer {
		cleanup = m.deleteOrphaned(ctx, req.OriginalReferences)
	}
	outcome := m.run(ctx, jobs, evt)
	outcome.CleanupFailures = cleanup
	return outcome, nil
}

func planJobs(target shared.IntegrationTarget, evt calendarevent.Event, previous []booking.Reference, changedOrganizer bool) []job {
	videoType := videoTypeFor(evt.Location)
	var jobs []job
	for _, cred := range target.Credentials {
		if cred.Invalid {
			continue
		}
		var j job
		switch {
		case cred.IsCalendar():
			j = job{cred: cred, calendar: calendarFor(cred, evt.DestinationCalendars)}
		case cred.IsVideo() && cred.Type == videoType:
			j = job{cred: cred}
		default:
			continue
		}
		if !changedOrganizer {
			j.existing = referenceFor(previous, cred.Type)
		}
		jobs = append(jobs, j)
	}
	return jobs
}

func (m *Manager) run(ctx context.Context, jobs []job, evt calendarevent.Event) calendarevent.Outcome {
	results := make([]calendarevent.IntegrationResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(maxParallelApps)
	for i, j := range jobs {
		g.Go(func() error {
			results[i] = m.call(ctx, j, evt)
			return nil
		})
	}
	_ = g.Wait()

	outcome := calendarevent.Outcome{Results: results}
	for i, r := range results {
		if !r.Success {
			continue
		}
		outcome.References = append(outcome.References, referenceFrom(r, jobs[i]))
	}
	return outcome
}

func (m *Manager) call(ctx context.Context, j job, evt calendarevent.Event) calendarevent.IntegrationResult {
	credID := j.cred.ID
	res := calendarevent.IntegrationResult{
		Type:         j.cred.Type,
		AppName:      j.cred.AppID,
		CredentialID: &credID,
	}

	method, endpoint := http.MethodPost, m.base+"/"+url.PathEscape(j.cred.Type)+"/events"
	if j.existing != nil && j.existing.UID != "" {
		method, endpoint = http.MethodPut, endpoint+"/"+url.PathEscape(j.existing.UID)
	}

	var out eventResponse
	if err := m.do(ctx, method, endpoint, toRequest(evt, j), &out); err != nil {
		res.Error = err.Error()
		return res
	}

	ext := &calendarevent.ExternalEvent{
		ID:                 out.ID,
		UID:                out.UID,
		ICalUID:            out.ICalUID,
		Type:               j.cred.Type,
		URL:                out.URL,
		Password:           out.Password,
		HangoutLink:        out.HangoutLink,
		ExternalCalendarID: firstNonEmpty(out.ExternalCalendarID, j.calendar),
		EntryPoints:        out.EntryPoints,
		HasConferenceData:  out.ConferenceData,
	}
	res.Success = true
	res.UID = out.UID
	res.ICalUID = out.ICalUID
	res.Warnings = out.Warnings
	if method == http.MethodPut {
		res.UpdatedEvent = ext
	} else {
		res.CreatedEvent = ext
	}
	return res
}

// deleteOrphaned removes events created for a previous organizer and reports the ones it
// could not remove.
func (m *Manager) deleteOrphaned(ctx context.Context, refs []booking.Reference) []calendarevent.CleanupFailure {
	var failed []calendarevent.CleanupFailure
	for _, ref := range refs {
		if ref.Deleted || ref.UID == "" {
			continue
		}
		endpoint := m.base + "/" + url.PathEscape(ref.Type) + "/events/" + url.PathEscape(ref.UID)
		if err := m.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
			failed = append(failed, calendarevent.CleanupFailure{Type: ref.Type, UID: ref.UID, Error: err.Error()})
		}
	}
	return failed
}

func (m *Manager) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errs.Wrap(err, "marshal integration request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errs.Wrap(err, "build integration request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.http.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "send integration request"), ErrAppRequestFailed)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrap(err, "read integration response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errs.Mark(errs.Newf("%s %s: http %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(b))), ErrAppRequestFailed)
	}
	if out == nil || len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return errs.Wrap(err, "parse integration response")
	}
	return nil
}

func toRequest(evt calendarevent.Event, j job) eventRequest {
	req := eventRequest{
		UID:                evt.UID,
		Title:              evt.Title,
		Description:        evt.Description,
		StartTime:          evt.StartTime,
		EndTime:            evt.EndTime,
		Organizer:          personPayload{Name: evt.Organizer.Name, Email: evt.Organizer.Email, TimeZone: evt.Organizer.TimeZone},
		Location:           evt.Location,
		ICalUID:            evt.ICalUID,
		ExternalCalendarID: j.calendar,
		HideCalendarNotes:  evt.HideCalendarNotes,
		RescheduleReason:   evt.RescheduleReason,
	}
	if evt.HideCalendarNotes {
		req.Description = ""
	}
	for _, a := range evt.Attendees {
		req.Attendees = append(req.Attendees, personPayload{Name: a.Name, Email: a.Email, TimeZone: a.TimeZone})
	}
	if v := evt.VideoCallData; v != nil {
		req.VideoCallData = &videoCallPayload{Type: v.Type, ID: v.ID, Password: v.Password, URL: v.URL}
	}
	if j.cred.DelegationCredentialID != nil {
		req.DelegationCredential = *j.cred.DelegationCredentialID
	}
	return req
}

func referenceFrom(r calendarevent.IntegrationResult, j job) booking.Reference {
	ref := booking.Reference{
		Type:                   r.Type,
		UID:                    r.UID,
		CredentialID:           r.CredentialID,
		DelegationCredentialID: j.cred.DelegationCredentialID,
	}
	if ext := r.Event(); ext != nil {
		ref.UID = firstNonEmpty(ref.UID, ext.UID, ext.ID)
		ref.MeetingID = ext.ID
		ref.MeetingPassword = ext.Password
		ref.MeetingURL = ext.URL
		ref.ExternalCalendarID = ext.ExternalCalendarID
	}
	return ref
}

// "integrations:zoom" -> "zoom_video". Google Meet rides on the Google Calendar event.
func videoTypeFor(location string) string {
	app, ok := strings.CutPrefix(location, "integrations:")
	if !ok || location == calendarevent.LocationGoogleMeet {
		return ""
	}
	return strings.ReplaceAll(app, ":", "_") + "_video"
}

func calendarFor(cred eventtype.Credential, calendars []eventtype.DestinationCalendar) string {
	for _, c := range calendars {
		if c.CredentialID != nil && *c.CredentialID == cred.ID {
			return c.ExternalID
		}
	}
	for _, c := range calendars {
		if c.Integration == cred.Type {
			return c.ExternalID
		}
	}
	return ""
}

func referenceFor(refs []booking.Reference, typ string) *booking.Reference {
	for i := range refs {
		if !refs[i].Deleted && refs[i].Type == typ {
			return &refs[i]
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
