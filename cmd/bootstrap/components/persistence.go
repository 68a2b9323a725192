package components

import (
	"booking-orchestrator/internal/infra/availability"
	"booking-orchestrator/internal/infra/fairness"
	"booking-orchestrator/internal/infra/readstore"
	"booking-orchestrator/internal/infra/repository"
	"booking-orchestrator/internal/infra/uow"
	"booking-orchestrator/internal/usecase/queries"
	"booking-orchestrator/internal/usecase/shared"

	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	readstoreModule,
	repositoryModule,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewEventTypeReadStore,
			fx.As(new(shared.EventTypeReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(shared.BookingReadStore)),
			fx.As(new(queries.BookingViewStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(shared.UserReadStore)),
		),
		fx.Annotate(
			readstore.NewBlockListReadStore,
			fx.As(new(shared.BlockList)),
		),
		fx.Annotate(
			readstore.NewDelegationReadStore,
			fx.As(new(shared.DelegationCredentials)),
		),
		readstore.NewNotificationReadStore,
		fx.Annotate(
			availability.NewChecker,
			fx.As(new(shared.AvailabilityChecker)),
		),
		fx.Annotate(
			fairness.NewLuckyUserPicker,
			fx.As(new(shared.FairnessSource)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			repository.NewWebhookRepository,
			fx.As(new(shared.WebhookStore)),
		),
	),
)
