//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/infra"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/readmodel"
	"booking-orchestrator/internal/usecase/shared"
	"booking-orchestrator/tests/common/builder"
	sharedmock "booking-orchestrator/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type pipeline struct {
	eventTypes   *sharedmock.MockEventTypeReadStore
	bookings     *sharedmock.MockBookingReadStore
	availability *sharedmock.MockAvailabilityChecker
	fairness     *sharedmock.MockFairnessSource
	layer        *sharedmock.MockIntegrationLayer
	bookingRepo  *sharedmock.MockBookingRepository
	channel      *sharedmock.MockNotificationChannel
	reminders    *sharedmock.MockReminderScheduler
	webhooks     *sharedmock.MockWebhookStore
	idem         *sharedmock.MockIdempotencyRepository
	sent         *sentMessages
	cmd          commands.BookingCommands
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	ctrl := gomock.NewController(t)

	blockList := sharedmock.NewMockBlockList(ctrl)
	blockList.EXPECT().IsBlocked(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
	window := sharedmock.NewMockBookingWindow(ctrl)
	window.EXPECT().WithinBookingWindow(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	delegation := sharedmock.NewMockDelegationCredentials(ctrl)
	delegation.EXPECT().EnrichUsers(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *int64, users []eventtype.User) ([]eventtype.User, error) {
			return users, nil
		}).AnyTimes()

	uow, bookingRepo, _ := newFakeUoW(ctrl)
	p := &pipeline{
		eventTypes:   sharedmock.NewMockEventTypeReadStore(ctrl),
		bookings:     sharedmock.NewMockBookingReadStore(ctrl),
		availability: sharedmock.NewMockAvailabilityChecker(ctrl),
		fairness:     sharedmock.NewMockFairnessSource(ctrl),
		layer:        sharedmock.NewMockIntegrationLayer(ctrl),
		bookingRepo:  bookingRepo,
		channel:      sharedmock.NewMockNotificationChannel(ctrl),
		reminders:    sharedmock.NewMockReminderScheduler(ctrl),
		webhooks:     sharedmock.NewMockWebhookStore(ctrl),
		idem:         uow.idem,
		sent:         &sentMessages{},
	}
	p.cmd = commands.NewBookingCommands(
		p.eventTypes,
		p.bookings,
		commands.NewBookingDataValidator(blockList, window),
		commands.NewHostLoader(sharedmock.NewMockUserReadStore(ctrl)),
		p.availability,
		commands.NewHostSelector(p.fairness, p.availability, delegation),
		delegation,
		commands.NewIntegrationCoordinator(p.layer),
		commands.NewIdempotencyGuard(uow, clock.NewRealClock()),
		commands.NewBookingCreator(uow),
		commands.NewNotificationDispatcher(p.channel, p.reminders),
		commands.NewWebhookDispatcher(p.webhooks, sharedmock.NewMockWebhookTransport(ctrl), nil, clock.NewRealClock()),
	)
	return p
}

// expectFanOut accepts notifications, reminders and an empty webhook subscriber list.
func (p *pipeline) expectFanOut(trigger webhook.Trigger) {
	p.channel.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg shared.NotificationMessage) error {
			p.sent.msgs = append(p.sent.msgs, msg)
			return nil
		}).AnyTimes()
	p.reminders.EXPECT().ScheduleWorkflowReminders(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	p.reminders.EXPECT().ScheduleMandatoryReminder(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	p.webhooks.EXPECT().FindSubscribers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f webhook.Filter) ([]webhook.Subscriber, error) {
			if f.Trigger != trigger {
				return nil, errs.Newf("unexpected trigger %s", f.Trigger)
			}
			return nil, nil
		})
}

// expectFreshClaim lets this request take the key.
func (p *pipeline) expectFreshClaim(key uuid.UUID) {
	p.idem.EXPECT().TryInsert(gomock.Any(), key, "POST /api/bookings", gomock.Any(), gomock.Any()).Return(true, nil)
}

// expectStoredKey finds the key already taken with the same request hash and the given state.
func (p *pipeline) expectStoredKey(key uuid.UUID, status string, resultUID *string) {
	var hash string
	p.idem.EXPECT().TryInsert(gomock.Any(), key, "POST /api/bookings", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ string, h string, _ time.Time) (bool, error) {
			hash = h
			return false, nil
		})
	p.idem.EXPECT().Get(gomock.Any(), key).
		DoAndReturn(func(context.Context, uuid.UUID) (*readmodel.IdempotencyKey, error) {
			return &readmodel.IdempotencyKey{Key: key, Endpoint: "POST /api/bookings", RequestHash: hash, Status: status, ResultBookingUID: resultUID}, nil
		})
}

func allFree(_ context.Context, hosts []eventtype.Host, _ shared.AvailabilityWindow) ([]eventtype.Host, error) {
	return hosts, nil
}

func persisted(_ context.Context, p shared.CreateBookingParams) (*booking.Booking, error) {
	userID := p.UserID
	return &booking.Booking{ID: 100, UID: p.UID, UserID: &userID, Status: p.Status, FromReschedule: p.FromReschedule}, nil
}

func TestBookingCommands_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("personal booking is created and fanned out", func(t *testing.T) {
		p := newPipeline(t)
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Len(1), gomock.Any()).DoAndReturn(allFree)
		p.layer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, target shared.IntegrationTarget, evt calendarevent.Event) (calendarevent.Outcome, error) {
				assert.Equal(t, int64(1), target.Organizer.ID)
				assert.Equal(t, "bob@example.com", evt.Booker().Email)
				return calendarevent.Outcome{}, nil
			})
		p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(persisted)
		p.expectFanOut(webhook.TriggerBookingCreated)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{})

		require.NoError(t, err)
		require.NotNil(t, res.Booking)
		assert.NotEqual(t, booking.DryRunUID, res.UID)
		assert.Equal(t, res.Booking.UID, res.UID)
		assert.False(t, res.IsDryRun)
		assert.Equal(t, []shared.Scenario{shared.ScenarioScheduled}, p.sent.scenarios())
	})

	t.Run("idempotency key is completed on first run", func(t *testing.T) {
		p := newPipeline(t)
		key := uuid.New()
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.expectFreshClaim(key)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)
		p.layer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(calendarevent.Outcome{}, nil)
		p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(persisted)
		p.idem.EXPECT().MarkCompleted(gomock.Any(), key, gomock.Any()).Return(nil)
		p.expectFanOut(webhook.TriggerBookingCreated)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{IdempotencyKey: &key})

		require.NoError(t, err)
		assert.False(t, res.Replayed)
		assert.NotNil(t, res.Booking)
	})

	t.Run("idempotent retry replays the stored booking", func(t *testing.T) {
		p := newPipeline(t)
		key := uuid.New()
		done := "booked-uid"
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.expectStoredKey(key, readmodel.IdempotencyCompleted, &done)
		p.bookings.EXPECT().FindByUID(gomock.Any(), done).Return(builder.NewStoredBooking(done, 1, slotStart), nil)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{IdempotencyKey: &key})

		require.NoError(t, err)
		assert.True(t, res.Replayed)
		assert.Equal(t, done, res.UID)
		assert.Empty(t, p.sent.scenarios())
	})

	t.Run("concurrent request with the same key is rejected", func(t *testing.T) {
		p := newPipeline(t)
		key := uuid.New()
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.expectStoredKey(key, readmodel.IdempotencyProcessing, nil)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{IdempotencyKey: &key})

		require.Error(t, err)
		assert.Nil(t, res)
		assert.True(t, errs.Is(err, commands.ErrIdempotencyInProgress))
	})

	t.Run("failed run releases the idempotency key", func(t *testing.T) {
		p := newPipeline(t)
		key := uuid.New()
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.expectFreshClaim(key)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		p.idem.EXPECT().Release(gomock.Any(), key).Return(nil)

		_, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{IdempotencyKey: &key})

		assert.True(t, errs.Is(err, commands.ErrNoAvailableUsers))
	})

	t.Run("one failed integration keeps every result and still persists", func(t *testing.T) {
		p := newPipeline(t)
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)
		p.layer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(calendarevent.Outcome{
			Results: []calendarevent.IntegrationResult{
				gcalResult(false, ""),
				{
					Type:         "zoom_video",
					Success:      true,
					UID:          "z1",
					CreatedEvent: &calendarevent.ExternalEvent{ID: "987", URL: "https://zoom.example/j/987"},
				},
			},
			References: []booking.Reference{{Type: "zoom_video", UID: "z1", MeetingURL: "https://zoom.example/j/987"}},
		}, nil)
		p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, params shared.CreateBookingParams) (*booking.Booking, error) {
				require.Len(t, params.References, 1)
				assert.Equal(t, "z1", params.References[0].UID)
				return persisted(ctx, params)
			})
		p.expectFanOut(webhook.TriggerBookingCreated)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{})

		require.NoError(t, err)
		require.NotNil(t, res.Booking)
		require.Len(t, res.IntegrationResults, 2)
		assert.False(t, res.IntegrationResults[0].Success)
		assert.True(t, res.IntegrationResults[1].Success)
		assert.Equal(t, "https://zoom.example/j/987", res.VideoCallURL)
	})

	t.Run("personal reschedule keeps the organizer artifacts", func(t *testing.T) {
		p := newPipeline(t)
		original := builder.NewStoredBooking("orig", 2, slotStart.Add(-24 * time.Hour))
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.bookings.EXPECT().FindByUID(gomock.Any(), "orig").Return(original, nil)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)
		p.layer.EXPECT().Reschedule(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ shared.IntegrationTarget, evt calendarevent.Event, req shared.RescheduleRequest) (calendarevent.Outcome, error) {
				assert.False(t, req.ChangedOrganizer)
				assert.Equal(t, original.ICalUID, evt.ICalUID)
				return calendarevent.Outcome{}, nil
			})
		p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(persisted)
		p.bookingRepo.EXPECT().MarkRescheduled(gomock.Any(), "orig", gomock.Any()).Return(nil)
		p.expectFanOut(webhook.TriggerBookingRescheduled)

		raw := builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
			r.RescheduleUID = "orig"
		}).Build()
		_, err := p.cmd.Book(ctx, raw, 11, commands.CallerContext{})

		require.NoError(t, err)
		assert.Equal(t, []shared.Scenario{shared.ScenarioRescheduled}, p.sent.scenarios())
	})

	t.Run("dry run skips side effects", func(t *testing.T) {
		p := newPipeline(t)
		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)

		res, err := p.cmd.Book(ctx, builder.NewBookingRequestBuilder(slotStart).Build(), 11, commands.CallerContext{DryRun: true})

		require.NoError(t, err)
		assert.Equal(t, booking.DryRunUID, res.UID)
		assert.Nil(t, res.Booking)
		assert.True(t, res.IsDryRun)
		assert.Empty(t, res.IntegrationResults)
	})

	t.Run("round robin reschedule to a new host", func(t *testing.T) {
		p := newPipeline(t)
		et := builder.NewEventTypeBuilder().RoundRobin(
			eventtype.Host{User: builder.NewUser(1, "alice")},
			eventtype.Host{User: builder.NewUser(3, "carol")},
			eventtype.Host{User: builder.NewUser(4, "dan")},
		).Build()
		original := builder.NewStoredBooking("orig", 4, slotStart.Add(-24 * time.Hour))

		p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(et, nil)
		p.bookings.EXPECT().FindByUID(gomock.Any(), "orig").Return(original, nil)
		p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Len(3), gomock.Any()).
			DoAndReturn(func(_ context.Context, hosts []eventtype.Host, w shared.AvailabilityWindow) ([]eventtype.Host, error) {
				assert.Equal(t, "orig", w.IgnoreBookingUID)
				return hosts[:2], nil
			})
		p.fairness.EXPECT().PickLuckyUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req shared.LuckyUserRequest) (*eventtype.Host, error) {
				assert.Len(t, req.Candidates, 2)
				assert.Len(t, req.AllRRHosts, 3)
				return pickByID(req.Candidates, 3), nil
			})
		p.layer.EXPECT().Reschedule(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, target shared.IntegrationTarget, evt calendarevent.Event, req shared.RescheduleRequest) (calendarevent.Outcome, error) {
				assert.Equal(t, int64(3), target.Organizer.ID)
				assert.Equal(t, "orig", req.OriginalUID)
				assert.True(t, req.ChangedOrganizer)
				assert.NotEqual(t, original.ICalUID, evt.ICalUID)
				return calendarevent.Outcome{}, nil
			})
		var newUID string
		gomock.InOrder(
			p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, params shared.CreateBookingParams) (*booking.Booking, error) {
					newUID = params.UID
					assert.Equal(t, 3, params.ICalSequence)
					assert.Equal(t, "orig", params.FromReschedule)
					return persisted(ctx, params)
				}),
			p.bookingRepo.EXPECT().MarkRescheduled(gomock.Any(), "orig", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, rescheduledTo string) error {
					assert.Equal(t, newUID, rescheduledTo)
					return nil
				}),
		)
		p.expectFanOut(webhook.TriggerBookingRescheduled)

		raw := builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
			r.RescheduleUID = "orig"
		}).Build()
		res, err := p.cmd.Book(ctx, raw, 11, commands.CallerContext{})

		require.NoError(t, err)
		assert.Equal(t, newUID, res.UID)
		require.Equal(t,
			[]shared.Scenario{shared.ScenarioRoundRobinRescheduled, shared.ScenarioRoundRobinCancelled},
			p.sent.scenarios())
		assert.Equal(t, "carol@example.com", p.sent.msgs[0].Recipients[0].Email)
		assert.Equal(t, "dan@example.com", p.sent.msgs[1].Recipients[0].Email)
	})

	testCases := []struct {
		name  string
		raw   commands.RawBookingRequest
		setup func(p *pipeline)
		errIs error
	}{
		{
			name: "event type not found",
			raw:  builder.NewBookingRequestBuilder(slotStart).Build(),
			setup: func(p *pipeline) {
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).
					Return(nil, infra.WrapRepoErr("event type not found", nil, infra.KindNotFound))
			},
			errIs: commands.ErrEventTypeNotFound,
		},
		{
			name: "invalid booker email",
			raw: builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
				r.Responses["email"] = "not-an-email"
			}).Build(),
			setup: func(p *pipeline) {
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
			},
			errIs: commands.ErrBookingValidation,
		},
		{
			name: "booking to reschedule is gone",
			raw: builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
				r.RescheduleUID = "missing"
			}).Build(),
			setup: func(p *pipeline) {
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
				p.bookings.EXPECT().FindByUID(gomock.Any(), "missing").
					Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))
			},
			errIs: commands.ErrRescheduleTargetNotFound,
		},
		{
			name: "booking to reschedule is already cancelled",
			raw: builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
				r.RescheduleUID = "orig"
			}).Build(),
			setup: func(p *pipeline) {
				cancelled := builder.NewStoredBooking("orig", 1, slotStart.Add(-24*time.Hour))
				cancelled.Status = booking.StatusCancelled
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
				p.bookings.EXPECT().FindByUID(gomock.Any(), "orig").Return(cancelled, nil)
			},
			errIs: commands.ErrRescheduleTargetNotFound,
		},
		{
			name: "booking to reschedule was rejected",
			raw: builder.NewBookingRequestBuilder(slotStart).With(func(r *commands.RawBookingRequest) {
				r.RescheduleUID = "orig"
			}).Build(),
			setup: func(p *pipeline) {
				rejected := builder.NewStoredBooking("orig", 1, slotStart.Add(-24*time.Hour))
				rejected.Status = booking.StatusRejected
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
				p.bookings.EXPECT().FindByUID(gomock.Any(), "orig").Return(rejected, nil)
			},
			errIs: commands.ErrRescheduleTargetNotFound,
		},
		{
			name: "fixed host busy",
			raw:  builder.NewBookingRequestBuilder(slotStart).Build(),
			setup: func(p *pipeline) {
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
				p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			errIs: commands.ErrNoAvailableUsers,
		},
		{
			name: "fairness source finds nobody",
			raw:  builder.NewBookingRequestBuilder(slotStart).Build(),
			setup: func(p *pipeline) {
				et := builder.NewEventTypeBuilder().RoundRobin(rrHosts()...).Build()
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(et, nil)
				p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)
				p.fairness.EXPECT().PickLuckyUser(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			errIs: commands.ErrRoundRobinHostsUnavailable,
		},
		{
			name: "duplicate uid",
			raw:  builder.NewBookingRequestBuilder(slotStart).Build(),
			setup: func(p *pipeline) {
				p.eventTypes.EXPECT().FindByID(gomock.Any(), int64(11)).Return(builder.NewEventTypeBuilder().Build(), nil)
				p.availability.EXPECT().AvailableHosts(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(allFree)
				p.layer.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(calendarevent.Outcome{}, nil)
				p.bookingRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, infra.WrapRepoErr("insert booking", errs.New("unique"), infra.KindDuplicateKey))
			},
			errIs: commands.ErrBookingConflict,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := newPipeline(t)
			tc.setup(p)

			res, err := p.cmd.Book(ctx, tc.raw, 11, commands.CallerContext{})

			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errs.Is(err, tc.errIs), "expected %v, got %v", tc.errIs, err)
		})
	}
}
