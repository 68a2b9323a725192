package bootstrap

import (
	"booking-orchestrator/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// Module wires the HTTP server.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.PersistenceModule,
	components.MessagingModule,
	components.UseCaseModule,
	components.HandlerModule,
)

// WorkerModule wires the background worker: reminders, webhook retries and the outbox relay.
var WorkerModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	components.PersistenceModule,
	components.MessagingModule,
	components.WorkerModule,
)
