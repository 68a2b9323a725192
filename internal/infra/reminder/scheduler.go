package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"booking-orchestrator/internal/domain/eventtype"
	"booking-orchestrator/internal/domain/webhook"
	"booking-orchestrator/internal/pkg/clock"
	"booking-orchestrator/internal/pkg/config"
	"booking-orchestrator/internal/pkg/errs"
	"booking-orchestrator/internal/usecase/shared"

	"github.com/hibiken/asynq"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler defers reminders and timed webhooks to the asynq worker.
type Scheduler struct {
	client        enqueuer
	clock         clock.Clock
	reminderQueue string
	webhookQueue  string
	mandatoryLead time.Duration
}

func NewRedisClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(redisOpt(cfg))
}

func redisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

func NewScheduler(client enqueuer, clk clock.Clock, redis config.RedisConfig, booking config.BookingConfig) *Scheduler {
	return &Scheduler{
		client:        client,
		clock:         clk,
		reminderQueue: redis.ReminderQueue,
		webhookQueue:  redis.WebhookQueue,
		mandatoryLead: booking.MandatoryReminderLead,
	}
}

func (s *Scheduler) ScheduleWorkflowReminders(ctx context.Context, req shared.WorkflowReminderRequest) error {
	if req.RequiresConfirmation {
		return nil
	}
	now := s.clock.Now()
	for _, wf := range req.Workflows {
		runAt, ok := workflowRunAt(wf, req, now)
		if !ok {
			continue
		}
		for _, step := range wf.Steps {
			p := newReminderPayload(req.Event, req.BookingUID)
			p.WorkflowID = wf.ID
			p.StepID = step.ID
			p.Action = string(step.Action)
			p.Template = step.Template
			p.SendTo = step.SendTo
			p.SMSNumber = req.SMSReminderNumber

			taskID := fmt.Sprintf("%s:wf:%d:%d", req.BookingUID, wf.ID, step.ID)
			if err := s.enqueue(ctx, TypeWorkflowReminder, p, s.reminderQueue, runAt, taskID); err != nil {
				return err
			}
		}
	}
	return nil
}

// workflowRunAt reports when a workflow's steps fire, and false when it should not be scheduled.
func workflowRunAt(wf eventtype.Workflow, req shared.WorkflowReminderRequest, now time.Time) (time.Time, bool) {
	offset := time.Duration(wf.OffsetMinutes) * time.Minute
	var at time.Time
	switch wf.Trigger {
	case eventtype.TriggerNewEvent:
		at = now
	case eventtype.TriggerBeforeEvent:
		at = req.Event.StartTime.Add(-offset)
	case eventtype.TriggerAfterEvent:
		at = req.Event.EndTime.Add(offset)
	default:
		return time.Time{}, false
	}
	if at.Before(now) {
		if wf.Trigger != eventtype.TriggerNewEvent {
			return time.Time{}, false
		}
		at = now
	}
	return at, true
}

func (s *Scheduler) ScheduleMandatoryReminder(ctx context.Context, req shared.MandatoryReminderRequest) error {
	if req.RequiresConfirmation || emailsAttendeeBeforeEvent(req.Workflows) {
		return nil
	}
	runAt := req.Event.StartTime.Add(-s.mandatoryLead)
	if runAt.Before(s.clock.Now()) {
		return nil
	}
	p := newReminderPayload(req.Event, req.BookingUID)
	return s.enqueue(ctx, TypeMandatoryReminder, p, s.reminderQueue, runAt, req.BookingUID+":mandatory")
}

func emailsAttendeeBeforeEvent(workflows []eventtype.Workflow) bool {
	for _, wf := range workflows {
		if wf.Trigger != eventtype.TriggerBeforeEvent {
			continue
		}
		for _, step := range wf.Steps {
			if step.Action == eventtype.ActionEmailAttendee {
				return true
			}
		}
	}
	return false
}

func (s *Scheduler) ScheduleDelivery(ctx context.Context, sub webhook.Subscriber, payload webhook.Payload, at time.Time) error {
	taskID := fmt.Sprintf("%s:%s:%d", sub.ID, payload.TriggerEvent, at.Unix())
	return s.enqueue(ctx, TypeWebhookDelivery, webhookPayload{Subscriber: sub, Payload: payload}, s.webhookQueue, at, taskID)
}

func (s *Scheduler) enqueue(ctx context.Context, typ string, payload any, queue string, at time.Time, taskID string) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrapf(err, "marshal %s task", typ)
	}
	info, err := s.client.EnqueueContext(ctx, asynq.NewTask(typ, b),
		asynq.ProcessAt(at),
		asynq.Queue(queue),
		asynq.TaskID(taskID),
		asynq.MaxRetry(5),
	)
	if err != nil {
		if errs.Is(err, asynq.ErrTaskIDConflict) {
			slog.DebugContext(ctx, "task already scheduled", "type", typ, "task_id", taskID)
			return nil
		}
		return errs.Wrapf(err, "enqueue %s task", typ)
	}
	slog.DebugContext(ctx, "task scheduled", "type", typ, "task_id", info.ID, "process_at", at)
	return nil
}
