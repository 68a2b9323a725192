package commands

import (
	"context"
	"log/slog"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookingCommands interface {
	// Book loads the event type and runs the booking pipeline for it.
	Book(ctx context.Context, raw RawBookingRequest, eventTypeID int64, caller CallerContext) (*BookingResult, error)
	CreateOrRescheduleBooking(ctx context.Context, raw RawBookingRequest, et *eventtype.EventType, caller CallerContext) (*BookingResult, error)
}

type bookingCommandsImpl struct {
	eventTypes   shared.EventTypeReadStore
	bookings     shared.BookingReadStore
	validator    *BookingDataValidator
	hosts        *HostLoader
	availability shared.AvailabilityChecker
	selector     *HostSelector
	delegation   shared.DelegationCredentials
	integrations *IntegrationCoordinator
	idempotency  *IdempotencyGuard
	creator      *BookingCreator
	notifier     *NotificationDispatcher
	webhooks     *WebhookDispatcher
	logger       *slog.Logger
}

func NewBookingCommands(
	eventTypes shared.EventTypeReadStore,
	bookings shared.BookingReadStore,
	validator *BookingDataValidator,
	hosts *HostLoader,
	availability shared.AvailabilityChecker,
	selector *HostSelector,
	delegation shared.DelegationCredentials,
	integrations *IntegrationCoordinator,
	idempotency *IdempotencyGuard,
	creator *BookingCreator,
	notifier *NotificationDispatcher,
	webhooks *WebhookDispatcher,
) BookingCommands {
	return &bookingCommandsImpl{
		eventTypes:   eventTypes,
		bookings:     bookings,
		validator:    validator,
		hosts:        hosts,
		availability: availability,
		selector:     selector,
		delegation:   delegation,
		integrations: integrations,
		idempotency:  idempotency,
		creator:      creator,
		notifier:     notifier,
		webhooks:     webhooks,
		logger:       slog.Default(),
	}
}

func (b *bookingCommandsImpl) Book(ctx context.Context, raw RawBookingRequest, eventTypeID int64, caller CallerContext) (*BookingResult, error) {
	et, err := b.eventTypes.FindByID(ctx, eventTypeID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrEventTypeNotFound)
		}
		return nil, errs.Wrap(err, "load event type")
	}
	if et == nil {
		return nil, ErrEventTypeNotFound
	}
	return b.CreateOrRescheduleBooking(ctx, raw, et, caller)
}

// CreateOrRescheduleBooking runs validation, host selection, integrations, persistence and
// fan-out in that order. Only validation, lookup, availability and conflict failures abort.
func (b *bookingCommandsImpl) CreateOrRescheduleBooking(ctx context.Context, raw RawBookingRequest, et *eventtype.EventType, caller CallerContext) (*BookingResult, error) {
	dryRun := raw.DryRun || caller.DryRun

	view := eventtype.ViewBooking
	if raw.RescheduleUID != "" {
		view = eventtype.ViewReschedule
	}
	data, err := b.validator.Validate(raw, et, view)
	if err != nil {
		return nil, err
	}
	scope := shared.NewRequestScope(b.logger, et.ID, data.Email, dryRun)

	if caller.IdempotencyKey == nil || dryRun {
		return b.run(ctx, scope, raw, et, caller, data, dryRun)
	}

	key := *caller.IdempotencyKey
	replayed, err := b.replay(ctx, scope, raw, et.ID, key)
	if err != nil || replayed != nil {
		return replayed, err
	}
	res, err := b.run(ctx, scope, raw, et, caller, data, dryRun)
	if err != nil {
		if relErr := b.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
			scope.Logger.Warn("failed to release idempotency key",
				"idempotency_key", key.String(),
				"error", relErr.Error())
		}
	}
	return res, err
}

func (b *bookingCommandsImpl) run(
	ctx context.Context,
	scope shared.RequestScope,
	raw RawBookingRequest,
	et *eventtype.EventType,
	caller CallerContext,
	data *ValidatedBookingData,
	dryRun bool,
) (*BookingResult, error) {
	original, err := b.loadOriginal(ctx, raw.RescheduleUID)
	if err != nil {
		return nil, err
	}

	loaded, err := b.hosts.LoadAndValidateUsers(ctx, scope, LoadUsersInput{
		EventType:           et,
		Caller:              caller,
		DynamicUsernames:    raw.DynamicUsernames,
		RoutedTeamMemberIDs: raw.RoutedTeamMemberIDs,
		RescheduleUID:       raw.RescheduleUID,
		OriginalBooking:     original,
	})
	if err != nil {
		return nil, err
	}

	hostTZ := et.HostTimeZone(&loaded.CurrentUser)
	if err := b.validator.ValidateConstraints(ctx, scope, data, et, caller, hostTZ); err != nil {
		return nil, err
	}

	users, err := b.resolveHosts(ctx, scope, raw, data, et, loaded, original)
	if err != nil {
		return nil, err
	}

	organizer := chooseOrganizer(users, original)
	changedOrganizer := original != nil && et.IsRoundRobin() && original.OrganizerID() != organizer.ID
	organizer = b.withDelegationCredentials(ctx, scope, organizer)

	uid := booking.DryRunUID
	if !dryRun {
		uid = uuid.NewString()
	}

	hostUsers := make([]eventtype.User, len(users))
	for i, h := range users {
		hostUsers[i] = h.User
	}
	in := calendarevent.BuildInput{
		UID:       uid,
		EventType: et,
		Organizer: organizer,
		Hosts:     hostUsers,
		Booker: calendarevent.Person{
			Name:        data.Name,
			Email:       data.Email,
			TimeZone:    data.TimeZone,
			Locale:      data.Language,
			PhoneNumber: data.AttendeePhoneNumber,
		},
		Guests:           data.Guests,
		Start:            data.Start,
		End:              data.End,
		Location:         data.Location,
		Notes:            data.Notes,
		Responses:        data.Responses,
		RescheduleReason: data.RescheduleReason,
		SMSReminder:      data.SMSReminderNumber,
		DynamicUsernames: raw.DynamicUsernames,
		RecurringEventID: raw.RecurringEventID,
	}
	if original != nil && !changedOrganizer {
		in.ICalUID = original.ICalUID
	}
	evt := calendarevent.Build(in)

	integrated := b.integrations.HandleEventCreation(ctx, scope, IntegrationInput{
		Event:            evt,
		Organizer:        organizer,
		Credentials:      usableCredentials(organizer.Credentials),
		OriginalBooking:  original,
		ChangedOrganizer: changedOrganizer,
		DryRun:           dryRun,
	})
	evt = evt.WithVideoCallData(integrated.Event.VideoCallData)

	created, err := b.creator.Create(ctx, scope, CreateBookingInput{
		UID:             uid,
		Organizer:       organizer,
		EventType:       et,
		Data:            data,
		Event:           evt,
		References:      integrated.ReferencesToCreate,
		VideoCallURL:    integrated.VideoCallURL,
		OriginalBooking: original,
		CreationSource:  creationSource(raw, caller),
		Confirmed:       loaded.IsConfirmedByDefault,
		IdempotencyKey:  caller.IdempotencyKey,
		DryRun:          dryRun,
	})
	if err != nil {
		return nil, err
	}

	notification := NotificationInput{
		Event:                evt,
		Booking:              created,
		EventType:            et,
		BookerEmail:          data.Email,
		Organizer:            evt.Organizer,
		IsRescheduling:       original != nil,
		ChangedOrganizer:     changedOrganizer,
		RequiresConfirmation: !loaded.IsConfirmedByDefault,
		NoEmail:              raw.NoEmail,
		IsFirstRecurringSlot: raw.RecurringEventID == "" || raw.RecurringCount == 1,
		DryRun:               dryRun,
	}
	if changedOrganizer {
		notification.PreviousOrganizer = previousOrganizer(original, loaded.Users, et)
	}
	b.notifier.Dispatch(ctx, scope, notification)

	trigger := webhook.TriggerBookingCreated
	if original != nil {
		trigger = webhook.TriggerBookingRescheduled
	}
	hook := WebhookInput{
		Event:        evt,
		Booking:      created,
		Filter:       webhookFilter(et, organizer, caller),
		Trigger:      trigger,
		VideoCallURL: integrated.VideoCallURL,
		DryRun:       dryRun,
	}
	b.webhooks.Dispatch(ctx, scope, hook)
	b.webhooks.ScheduleMeetingTriggers(ctx, scope, hook)

	resultUID := uid
	if created != nil {
		resultUID = created.UID
	}
	scope.Logger.Info("booking pipeline completed",
		"uid", resultUID,
		"organizer_id", organizer.ID,
		"trigger", string(trigger),
		"integrations", len(integrated.Results))

	return &BookingResult{
		UID:                resultUID,
		Booking:            created,
		Event:              evt,
		IntegrationResults: integrated.Results,
		ReferencesToCreate: integrated.ReferencesToCreate,
		VideoCallURL:       integrated.VideoCallURL,
		Metadata:           integrated.Metadata,
		IsDryRun:           dryRun,
	}, nil
}

// replay returns the booking an earlier request with the same key created, if any.
func (b *bookingCommandsImpl) replay(ctx context.Context, scope shared.RequestScope, raw RawBookingRequest, eventTypeID int64, key uuid.UUID) (*BookingResult, error) {
	hash, err := requestHash(raw, eventTypeID)
	if err != nil {
		return nil, err
	}
	uid, err := b.idempotency.Claim(ctx, key, hash)
	if err != nil || uid == "" {
		return nil, err
	}
	existing, err := b.bookings.FindByUID(ctx, uid)
	if err != nil {
		return nil, errs.Wrap(err, "load replayed booking")
	}
	scope.Logger.Info("replaying booking for idempotency key", "uid", uid, "idempotency_key", key.String())
	return &BookingResult{UID: uid, Booking: existing, Replayed: true}, nil
}

func (b *bookingCommandsImpl) loadOriginal(ctx context.Context, uid string) (*booking.Booking, error) {
	if uid == "" {
		return nil, nil
	}
	original, err := b.bookings.FindByUID(ctx, uid)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrRescheduleTargetNotFound)
		}
		return nil, errs.Wrap(err, "load booking to reschedule")
	}
	if original == nil {
		return nil, ErrRescheduleTargetNotFound
	}
	if !original.Status.IsBlocking() {
		return nil, errs.Mark(errs.Newf("booking %s is %s", uid, original.Status), ErrRescheduleTargetNotFound)
	}
	return original, nil
}

// resolveHosts keeps every fixed host, which must all be free, and adds one round-robin host.
func (b *bookingCommandsImpl) resolveHosts(
	ctx context.Context,
	scope shared.RequestScope,
	raw RawBookingRequest,
	data *ValidatedBookingData,
	et *eventtype.EventType,
	loaded *LoadedUsers,
	original *booking.Booking,
) ([]eventtype.Host, error) {
	window := shared.AvailabilityWindow{
		From:     data.Start,
		To:       data.End,
		TimeZone: data.TimeZone,
	}
	if original != nil {
		window.IgnoreBookingUID = original.UID
	}
	available, err := b.availability.AvailableHosts(ctx, loaded.Users, window)
	if err != nil {
		return nil, errs.Wrap(err, "check host availability")
	}

	free := make(map[int64]struct{}, len(available))
	for _, h := range available {
		free[h.User.ID] = struct{}{}
	}
	var fixed, pool, allRR []eventtype.Host
	for _, h := range loaded.Users {
		_, ok := free[h.User.ID]
		switch {
		case h.IsFixed && !ok:
			scope.Logger.Info("fixed host unavailable", "user_id", h.User.ID)
			return nil, ErrNoAvailableUsers
		case h.IsFixed:
			fixed = append(fixed, h)
		default:
			allRR = append(allRR, h)
			if ok {
				pool = append(pool, h)
			}
		}
	}

	if len(allRR) == 0 {
		if len(fixed) == 0 {
			return nil, ErrNoAvailableUsers
		}
		return fixed, nil
	}
	if len(pool) == 0 {
		scope.Logger.Info("no round robin host free for the requested slot", "round_robin_hosts", len(allRR))
		return nil, ErrNoAvailableUsers
	}

	selection, err := b.selector.SelectLuckyUsers(ctx, scope, LuckyUserInput{
		Pool:                  pool,
		AllRRHosts:            allRR,
		Required:              1,
		EventType:             et,
		OrgID:                 pool[0].User.OrganizationID,
		RecurringDates:        raw.AllRecurringDates,
		NumSlotsToCheck:       raw.NumSlotsToCheckForAvailability,
		TimeZone:              data.TimeZone,
		OriginalBookingUID:    window.IgnoreBookingUID,
		RoutingFormResponseID: raw.RoutingFormResponseID,
	})
	if err != nil {
		return nil, err
	}
	if selection.Final != StateAccepted {
		scope.Logger.Warn("round robin selection exhausted",
			"unavailable", len(selection.Unavailable),
			"transitions", len(selection.Transitions))
		return nil, ErrRoundRobinHostsUnavailable
	}
	return append(fixed, selection.Lucky...), nil
}

func (b *bookingCommandsImpl) withDelegationCredentials(ctx context.Context, scope shared.RequestScope, organizer eventtype.User) eventtype.User {
	if b.delegation == nil || organizer.OrganizationID == nil {
		return organizer
	}
	enriched, err := b.delegation.EnrichUsers(ctx, organizer.OrganizationID, []eventtype.User{organizer})
	if err != nil || len(enriched) == 0 {
		if err != nil {
			scope.Logger.Warn("delegation credentials unavailable for organizer", "user_id", organizer.ID, "error", err.Error())
		}
		return organizer
	}
	return enriched[0]
}

// the original organizer stays when still among the hosts
func chooseOrganizer(users []eventtype.Host, original *booking.Booking) eventtype.User {
	if original != nil {
		for _, h := range users {
			if h.User.ID == original.OrganizerID() {
				return h.User
			}
		}
	}
	return users[0].User
}

func previousOrganizer(original *booking.Booking, hosts []eventtype.Host, et *eventtype.EventType) *calendarevent.Person {
	id := original.OrganizerID()
	find := func(u eventtype.User) *calendarevent.Person {
		uid := u.ID
		return &calendarevent.Person{ID: &uid, Name: u.Name, Email: u.Email, Username: u.Username, TimeZone: u.TimeZone, Locale: u.Locale}
	}
	for _, h := range hosts {
		if h.User.ID == id {
			return find(h.User)
		}
	}
	for _, h := range et.Hosts {
		if h.User.ID == id {
			return find(h.User)
		}
	}
	for _, u := range et.Users {
		if u.ID == id {
			return find(u)
		}
	}
	return nil
}

func usableCredentials(creds []eventtype.Credential) []eventtype.Credential {
	out := make([]eventtype.Credential, 0, len(creds))
	for _, c := range creds {
		if c.Invalid || (!c.IsCalendar() && !c.IsVideo()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func webhookFilter(et *eventtype.EventType, organizer eventtype.User, caller CallerContext) webhook.Filter {
	userID := organizer.ID
	etID := et.ID
	f := webhook.Filter{
		UserID:        &userID,
		EventTypeID:   &etID,
		OrgID:         organizer.OrganizationID,
		OAuthClientID: caller.PlatformClientID,
	}
	if et.Team != nil {
		teamID := et.Team.ID
		f.TeamID = &teamID
	}
	return f
}

func creationSource(raw RawBookingRequest, caller CallerContext) booking.CreationSource {
	if raw.CreationSource != "" {
		return raw.CreationSource
	}
	if caller.IsPlatform() {
		return booking.SourcePlatform
	}
	return booking.SourceWebapp
}
