package components

import (
	"booking-orchestrator/internal/domain/booking"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/usecase"
	"booking-orchestrator/internal/usecase/commands"
	"booking-orchestrator/internal/usecase/queries"
	"booking-orchestrator/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewWindowChecker,
		fx.As(new(shared.BookingWindow)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewHostLoader,
		commands.NewHostSelector,
		commands.NewIntegrationCoordinator,
		commands.NewIdempotencyGuard,
		commands.NewBookingCreator,
		commands.NewNotificationDispatcher,
		commands.NewWebhookDispatcher,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		commands.NewBookingDataValidator,
		usecase.NewTokenValidator,
	),
)
