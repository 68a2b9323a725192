package fairness

import (
	"context"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const findHostBookingStatsSQL = `
SELECT user_id, max(created_at), count(*) FILTER (WHERE created_at >= date_trunc('month', now()))
FROM bookings
WHERE user_id = ANY ($1)
  AND event_type_id = $2
  AND status = ANY ($3)
GROUP BY user_id`

// metadata flag that switches the distribution from recency to weights
const weightsEnabledKey = "isRRWeightsEnabled"

const defaultWeight = 100

type hostStats struct {
	LastBookedAt *time.Time
	MonthCount   int64
}

type LuckyUserPicker struct {
	db db.DBTX
}

func NewLuckyUserPicker(dbtx db.DBTX) *LuckyUserPicker {
	return &LuckyUserPicker{db: dbtx}
}

func (p *LuckyUserPicker) PickLuckyUser(ctx context.Context, req shared.LuckyUserRequest) (*eventtype.Host, error) {
	if len(req.Candidates) == 0 || req.EventType == nil {
		return nil, nil
	}

	pool := req.AllRRHosts
	if len(pool) == 0 {
		pool = req.Candidates
	}
	stats, err := p.loadStats(ctx, req.EventType.ID, unionIDs(req.Candidates, pool))
	if err != nil {
		return nil, err
	}
	return pick(req.Candidates, pool, stats, weightsEnabled(req.EventType)), nil
}

func (p *LuckyUserPicker) loadStats(ctx context.Context, eventTypeID int64, userIDs []int64) (map[int64]hostStats, error) {
	statuses := []string{
		string(booking.StatusAccepted),
		string(booking.StatusPending),
		string(booking.StatusAwaitingHost),
	}
	rows, err := p.db.Query(ctx, findHostBookingStatsSQL, userIDs, eventTypeID, statuses)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query host booking stats", err)
	}

	stats := make(map[int64]hostStats, len(userIDs))
	var (
		userID     int64
		lastBooked pgtype.Timestamptz
		monthCount int64
	)
	_, err = pgx.ForEachRow(rows, []any{&userID, &lastBooked, &monthCount}, func() error {
		st := hostStats{MonthCount: monthCount}
		if lastBooked.Valid {
			t := lastBooked.Time
			st.LastBookedAt = &t
		}
		stats[userID] = st
		return nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan host booking stats", err)
	}
	return stats, nil
}

// pick narrows candidates to the highest priority, then chooses by weight shortfall when
// weights are enabled, otherwise the least recently booked host. Remaining ties keep input order.
func pick(candidates, pool []eventtype.Host, stats map[int64]hostStats, weighted bool) *eventtype.Host {
	if len(candidates) == 0 {
		return nil
	}
	top := highestPriority(candidates)
	if weighted {
		top = largestShortfall(top, pool, stats)
	}
	best := top[0]
	for _, h := range top[1:] {
		if bookedBefore(stats[h.User.ID], stats[best.User.ID]) {
			best = h
		}
	}
	return &best
}

func highestPriority(hosts []eventtype.Host) []eventtype.Host {
	maxPriority := hosts[0].Priority
	for _, h := range hosts[1:] {
		maxPriority = max(maxPriority, h.Priority)
	}
	out := make([]eventtype.Host, 0, len(hosts))
	for _, h := range hosts {
		if h.Priority == maxPriority {
			out = append(out, h)
		}
	}
	return out
}

// largestShortfall keeps the hosts furthest below their weighted share of this month's bookings.
func largestShortfall(hosts, pool []eventtype.Host, stats map[int64]hostStats) []eventtype.Host {
	var totalWeight, totalBookings float64
	for _, h := range pool {
		totalWeight += float64(weightOf(h))
		totalBookings += float64(stats[h.User.ID].MonthCount)
	}
	if totalWeight == 0 {
		return hosts
	}

	shortfall := func(h eventtype.Host) float64 {
		expected := totalBookings * float64(weightOf(h)) / totalWeight
		return expected - float64(stats[h.User.ID].MonthCount)
	}

	best := shortfall(hosts[0])
	for _, h := range hosts[1:] {
		best = max(best, shortfall(h))
	}
	out := make([]eventtype.Host, 0, len(hosts))
	for _, h := range hosts {
		if shortfall(h) == best {
			out = append(out, h)
		}
	}
	return out
}

// never-booked hosts sort first
func bookedBefore(a, b hostStats) bool {
	switch {
	case a.LastBookedAt == nil:
		return b.LastBookedAt != nil
	case b.LastBookedAt == nil:
		return false
	default:
		return a.LastBookedAt.Before(*b.LastBookedAt)
	}
}

func weightOf(h eventtype.Host) int {
	if h.Weight <= 0 {
		return defaultWeight
	}
	return h.Weight
}

func weightsEnabled(et *eventtype.EventType) bool {
	v, ok := et.Metadata[weightsEnabledKey].(bool)
	return ok && v
}

func unionIDs(a, b []eventtype.Host) []int64 {
	seen := make(map[int64]struct{}, len(a)+len(b))
	ids := make([]int64, 0, len(a)+len(b))
	for _, hosts := range [][]eventtype.Host{a, b} {
		for _, h := range hosts {
			if _, ok := seen[h.User.ID]; ok {
				continue
			}
			seen[h.User.ID] = struct{}{}
			ids = append(ids, h.User.ID)
		}
	}
	return ids
}
