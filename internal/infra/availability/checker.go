package availability

import (
	"context"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/infra/db"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
)

// busy when any blocking booking overlaps [from, to)
const findBusyUsersSQL = `
SELECT DISTINCT user_id
FROM bookings
WHERE user_id = ANY ($1)
  AND status = ANY ($2)
  AND start_time < $4
  AND end_time > $3
  AND ($5 = '' OR uid <> $5)`

var blockingStatuses = []string{
	string(booking.StatusAccepted),
	string(booking.StatusPending),
	string(booking.StatusAwaitingHost),
}

type Checker struct {
	db db.DBTX
}

func NewChecker(dbtx db.DBTX) *Checker {
	return &Checker{db: dbtx}
}

func (c *Checker) AvailableHosts(ctx context.Context, hosts []eventtype.Host, window shared.AvailabilityWindow) ([]eventtype.Host, error) {
	if len(hosts) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(hosts))
	for _, h := range hosts {
		ids = append(ids, h.User.ID)
	}

	rows, err := c.db.Query(ctx, findBusyUsersSQL, ids, blockingStatuses, window.From, window.To, window.IgnoreBookingUID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query busy hosts", err)
	}
	busyIDs, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan busy hosts", err)
	}

	return withoutBusy(hosts, busyIDs), nil
}

func withoutBusy(hosts []eventtype.Host, busyIDs []int64) []eventtype.Host {
	busy := make(map[int64]struct{}, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = struct{}{}
	}
	free := make([]eventtype.Host, 0, len(hosts))
	for _, h := range hosts {
		if _, ok := busy[h.User.ID]; !ok {
			free = append(free, h)
		}
	}
	return free
}
