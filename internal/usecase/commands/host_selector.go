package commands

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"
)

type SelectionState int

const (
	StateSelecting SelectionState = iota
	StateProbing
	StateAccepted
	StateExhausted
)

func (s SelectionState) String() string {
	switch s {
	case StateSelecting:
		return "selecting"
	case StateProbing:
		return "probing"
	case StateAccepted:
		return "accepted"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

type LuckyUserInput struct {
	// Pool holds the round-robin eligible hosts already free for the requested slot.
	Pool       []eventtype.Host
	AllRRHosts []eventtype.Host
	Required   int
	EventType  *eventtype.EventType
	OrgID      *int64

	RecurringDates     []TimeRange
	NumSlotsToCheck    int
	TimeZone           string
	OriginalBookingUID string

	RoutingFormResponseID *int64
}

type LuckyUserSelection struct {
	Lucky       []eventtype.Host
	Unavailable []eventtype.Host
	// Final is StateAccepted when Required hosts were found, StateExhausted otherwise.
	Final       SelectionState
	Transitions []SelectionState
}

type HostSelector struct {
	fairness     shared.FairnessSource
	availability shared.AvailabilityChecker
	delegation   shared.DelegationCredentials
}

func NewHostSelector(fairness shared.FairnessSource, availability shared.AvailabilityChecker, delegation shared.DelegationCredentials) *HostSelector {
	return &HostSelector{
		fairness:     fairness,
		availability: availability,
		delegation:   delegation,
	}
}

type selectionRun struct {
	in        LuckyUserInput
	sel       LuckyUserSelection
	candidate *eventtype.Host
	log       *slog.Logger
}

// SelectLuckyUsers picks up to in.Required distinct round-robin hosts. Every iteration either
// accepts a host or moves one into the unavailable set, and stops as soon as the free pool or
// the fairness source runs dry, so the loop is bounded by the pool size.
func (s *HostSelector) SelectLuckyUsers(ctx context.Context, scope shared.RequestScope, in LuckyUserInput) (*LuckyUserSelection, error) {
	if in.Required <= 0 {
		in.Required = 1
	}
	run := &selectionRun{in: in, log: scope.Logger}

	state := StateSelecting
	for {
		run.sel.Transitions = append(run.sel.Transitions, state)

		var err error
		switch state {
		case StateSelecting:
			state, err = s.selectCandidate(ctx, run)
		case StateProbing:
			state, err = s.probeCandidate(ctx, run)
		case StateAccepted:
			run.sel.Lucky = append(run.sel.Lucky, *run.candidate)
			run.candidate = nil
			if len(run.sel.Lucky) >= in.Required {
				run.sel.Final = StateAccepted
				return &run.sel, nil
			}
			state = StateSelecting
		case StateExhausted:
			run.sel.Final = StateExhausted
			return &run.sel, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (s *HostSelector) selectCandidate(ctx context.Context, run *selectionRun) (SelectionState, error) {
	free := run.freeHosts()
	if len(free) == 0 {
		run.log.Info("round robin pool exhausted",
			"lucky", len(run.sel.Lucky), "unavailable", len(run.sel.Unavailable))
		return StateExhausted, nil
	}

	candidates, err := s.enrich(ctx, run.in.OrgID, free)
	if err != nil {
		return 0, err
	}
	candidates = currentHostsOnly(candidates, run.in.EventType)
	if len(candidates) == 0 {
		return StateExhausted, nil
	}

	picked, err := s.fairness.PickLuckyUser(ctx, shared.LuckyUserRequest{
		Candidates:            candidates,
		AllRRHosts:            run.in.AllRRHosts,
		EventType:             run.in.EventType,
		RoutingFormResponseID: run.in.RoutingFormResponseID,
	})
	if err != nil {
		return 0, errs.Wrap(err, "pick lucky user")
	}
	if picked == nil {
		run.log.Info("fairness source returned no candidate")
		return StateExhausted, nil
	}
	if !containsHost(candidates, picked.User.ID) {
		run.log.Warn("fairness source returned a host outside the candidate set", "user_id", picked.User.ID)
		return StateExhausted, nil
	}

	h := *picked
	run.candidate = &h
	if run.needsProbe() {
		return StateProbing, nil
	}
	return StateAccepted, nil
}

// probeCandidate checks the first NumSlotsToCheck occurrences of a recurring booking.
func (s *HostSelector) probeCandidate(ctx context.Context, run *selectionRun) (SelectionState, error) {
	host := *run.candidate
	limit := min(run.in.NumSlotsToCheck, len(run.in.RecurringDates))

	for i := 0; i < limit; i++ {
		slot := run.in.RecurringDates[i]
		available, err := s.availability.AvailableHosts(ctx, []eventtype.Host{host}, shared.AvailabilityWindow{
			From:             slot.Start,
			To:               slot.End,
			TimeZone:         run.in.TimeZone,
			IgnoreBookingUID: run.in.OriginalBookingUID,
		})
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if err != nil || len(available) == 0 {
			attrs := []any{"user_id", host.User.ID, "slot", i, "slot_start", slot.Start}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			run.log.Info("round robin host unavailable for recurring slot", attrs...)
			run.sel.Unavailable = append(run.sel.Unavailable, host)
			run.candidate = nil
			return StateSelecting, nil
		}
	}
	return StateAccepted, nil
}

func (s *HostSelector) enrich(ctx context.Context, orgID *int64, hosts []eventtype.Host) ([]eventtype.Host, error) {
	if s.delegation == nil {
		return hosts, nil
	}
	users := make([]eventtype.User, len(hosts))
	for i, h := range hosts {
		users[i] = h.User
	}
	enriched, err := s.delegation.EnrichUsers(ctx, orgID, users)
	if err != nil {
		return nil, errs.Wrap(err, "enrich delegation credentials")
	}
	byID := make(map[int64]eventtype.User, len(enriched))
	for _, u := range enriched {
		byID[u.ID] = u
	}
	out := make([]eventtype.Host, len(hosts))
	for i, h := range hosts {
		if u, ok := byID[h.User.ID]; ok {
			h.User = u
		}
		out[i] = h
	}
	return out, nil
}

func (r *selectionRun) needsProbe() bool {
	return r.in.EventType.IsRoundRobin() && len(r.in.RecurringDates) > 0 && r.in.NumSlotsToCheck > 0
}

func (r *selectionRun) freeHosts() []eventtype.Host {
	taken := make(map[int64]struct{}, len(r.sel.Lucky)+len(r.sel.Unavailable))
	for _, h := range r.sel.Lucky {
		taken[h.User.ID] = struct{}{}
	}
	for _, h := range r.sel.Unavailable {
		taken[h.User.ID] = struct{}{}
	}
	var free []eventtype.Host
	for _, h := range r.in.Pool {
		if _, ok := taken[h.User.ID]; !ok {
			free = append(free, h)
		}
	}
	return free
}

func currentHostsOnly(hosts []eventtype.Host, et *eventtype.EventType) []eventtype.Host {
	out := hosts[:0:0]
	for _, h := range hosts {
		if et.HasHost(h.User.ID) {
			out = append(out, h)
		}
	}
	return out
}

func containsHost(hosts []eventtype.Host, userID int64) bool {
	for _, h := range hosts {
		if h.User.ID == userID {
			return true
		}
	}
	return false
}
