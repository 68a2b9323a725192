package commands

import (
	"context"
	"strings"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"
)

type LoadUsersInput struct {
	EventType           *eventtype.EventType
	Caller              CallerContext
	DynamicUsernames    []string
	RoutedTeamMemberIDs []int64
	RescheduleUID       string
	OriginalBooking     *booking.Booking
}

type LoadedUsers struct {
	Users []eventtype.Host
	// CurrentUser is the provisional organizer before round-robin selection.
	CurrentUser          eventtype.User
	RescheduleUID        string
	IsConfirmedByDefault bool
}

type HostLoader struct {
	users shared.UserReadStore
}

func NewHostLoader(users shared.UserReadStore) *HostLoader {
	return &HostLoader{users: users}
}

// LoadAndValidateUsers resolves the hosts eligible for this request.
func (l *HostLoader) LoadAndValidateUsers(ctx context.Context, scope shared.RequestScope, in LoadUsersInput) (*LoadedUsers, error) {
	et := in.EventType

	var hosts []eventtype.Host
	if len(in.DynamicUsernames) > 0 {
		users, err := l.users.FindByUsernames(ctx, in.DynamicUsernames, orgSlug(in.Caller))
		if err != nil {
			return nil, errs.Wrap(err, "load dynamic group users")
		}
		for _, u := range users {
			hosts = append(hosts, eventtype.Host{User: u, IsFixed: true})
		}
	} else {
		hosts = eventTypeHosts(et)
	}

	if len(in.RoutedTeamMemberIDs) > 0 {
		hosts = restrictToRouted(hosts, in.RoutedTeamMemberIDs)
	}

	if in.OriginalBooking != nil && et.IsRoundRobin() && et.RescheduleWithSameRoundRobinHost {
		hosts = keepOriginalRoundRobinHost(hosts, in.OriginalBooking.OrganizerID())
	}

	if len(hosts) == 0 {
		scope.Logger.Warn("no hosts resolved for event type")
		return nil, ErrEventTypeUsersNotFound
	}

	return &LoadedUsers{
		Users:                hosts,
		CurrentUser:          provisionalOrganizer(hosts, in.OriginalBooking),
		RescheduleUID:        in.RescheduleUID,
		IsConfirmedByDefault: !et.RequiresConfirmation,
	}, nil
}

func eventTypeHosts(et *eventtype.EventType) []eventtype.Host {
	if len(et.Hosts) > 0 {
		hosts := make([]eventtype.Host, len(et.Hosts))
		copy(hosts, et.Hosts)
		return hosts
	}
	hosts := make([]eventtype.Host, 0, len(et.Users))
	for _, u := range et.Users {
		// personal events have no round-robin pool
		hosts = append(hosts, eventtype.Host{User: u, IsFixed: !et.IsRoundRobin()})
	}
	return hosts
}

// fixed hosts always stay; round-robin hosts must have been routed to
func restrictToRouted(hosts []eventtype.Host, routed []int64) []eventtype.Host {
	allowed := make(map[int64]struct{}, len(routed))
	for _, id := range routed {
		allowed[id] = struct{}{}
	}
	out := hosts[:0:0]
	for _, h := range hosts {
		if _, ok := allowed[h.User.ID]; h.IsFixed || ok {
			out = append(out, h)
		}
	}
	return out
}

func keepOriginalRoundRobinHost(hosts []eventtype.Host, originalHostID int64) []eventtype.Host {
	var found bool
	for _, h := range hosts {
		if !h.IsFixed && h.User.ID == originalHostID {
			found = true
			break
		}
	}
	if !found {
		return hosts
	}
	out := hosts[:0:0]
	for _, h := range hosts {
		if h.IsFixed || h.User.ID == originalHostID {
			out = append(out, h)
		}
	}
	return out
}

func provisionalOrganizer(hosts []eventtype.Host, original *booking.Booking) eventtype.User {
	if original != nil {
		for _, h := range hosts {
			if h.User.ID == original.OrganizerID() {
				return h.User
			}
		}
	}
	for _, h := range hosts {
		if h.IsFixed {
			return h.User
		}
	}
	return hosts[0].User
}

// organization slug from an explicit override or the booking page subdomain
func orgSlug(c CallerContext) string {
	if c.ForcedSlug != "" {
		return c.ForcedSlug
	}
	host := c.Hostname
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) < 3 {
		return ""
	}
	return parts[0]
}
