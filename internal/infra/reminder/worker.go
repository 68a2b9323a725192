package reminder

import (
	"context"
	"encoding/json"
	"log/slog"

	"booking-orchestrator/internal/domain/calendarevent"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

// Worker executes the tasks Scheduler defers.
type Worker struct {
	server    *asynq.Server
	channel   shared.NotificationChannel
	transport shared.WebhookTransport
}

func NewWorker(cfg config.RedisConfig, channel shared.NotificationChannel, transport shared.WebhookTransport) *Worker {
	srv := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues: map[string]int{
			cfg.ReminderQueue: 6,
			cfg.WebhookQueue:  4,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			slog.ErrorContext(ctx, "task failed", "type", task.Type(), "error", err.Error())
		}),
	})
	return &Worker{server: srv, channel: channel, transport: transport}
}

func (w *Worker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeWorkflowReminder, w.handleReminder)
	mux.HandleFunc(TypeMandatoryReminder, w.handleReminder)
	mux.HandleFunc(TypeWebhookDelivery, w.handleWebhook)
	return mux
}

// Run blocks until the server receives a termination signal.
func (w *Worker) Run() error {
	return w.server.Run(w.Mux())
}

// Start processes tasks in the background; pair it with Shutdown.
func (w *Worker) Start() error {
	return w.server.Start(w.Mux())
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleReminder(ctx context.Context, task *asynq.Task) error {
	var p reminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return errs.Mark(errs.Wrap(err, "decode reminder"), asynq.SkipRetry)
	}

	evt := calendarevent.Event{
		UID:       p.BookingUID,
		Title:     p.Title,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Organizer: fromPerson(p.Organizer),
	}
	for _, a := range p.Attendees {
		evt.Attendees = append(evt.Attendees, fromPerson(a))
	}

	slog.InfoContext(ctx, "sending reminder", "type", task.Type(), "booking_uid", p.BookingUID, "workflow_id", p.WorkflowID)
	return w.channel.Send(ctx, shared.NotificationMessage{
		Scenario:   shared.ScenarioReminder,
		Event:      evt,
		Recipients: p.recipients(),
	})
}

func (w *Worker) handleWebhook(ctx context.Context, task *asynq.Task) error {
	var p webhookPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return errs.Mark(errs.Wrap(err, "decode webhook task"), asynq.SkipRetry)
	}
	return w.transport.Deliver(ctx, p.Subscriber.Secret, p.Payload.TriggerEvent, p.Payload.CreatedAt, p.Subscriber, p.Payload)
}
