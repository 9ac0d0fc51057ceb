package scheduler

import (
	"context"
	"fmt"
	"time"

	"fieldops_backend/internal/events"
	"fieldops_backend/platform/logger"
)

// ReminderEnqueuer turns ServiceScheduled events into delayed reminder
// tasks, firing leadTime before the visit.
type ReminderEnqueuer struct {
	client   *Client
	leadTime time.Duration
	log      *logger.Logger
}

// NewReminderEnqueuer creates an enqueuer. client may be nil when the
// scheduler is disabled; events are then logged and dropped.
func NewReminderEnqueuer(client *Client, leadTime time.Duration, log *logger.Logger) *ReminderEnqueuer {
	return &ReminderEnqueuer{client: client, leadTime: leadTime, log: log}
}

// Register subscribes the enqueuer to the event bus.
func (e *ReminderEnqueuer) Register(bus events.Bus) {
	bus.Subscribe(events.ServiceScheduled{}.EventName(), events.HandlerFunc(e.handleServiceScheduled))
}

func (e *ReminderEnqueuer) handleServiceScheduled(ctx context.Context, event events.Event) error {
	scheduled, ok := event.(events.ServiceScheduled)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if e.client == nil {
		e.log.Info("scheduler disabled, skipping reminder", "service", scheduled.ServiceID)
		return nil
	}

	runAt := scheduled.ScheduledFor.Add(-e.leadTime)
	if runAt.Before(time.Now()) {
		// Short-notice visit: fire the reminder right away.
		runAt = time.Now()
	}

	err := e.client.ScheduleServiceReminder(ctx, ServiceReminderPayload{
		ServiceID: scheduled.ServiceID,
		TeamID:    scheduled.TeamID.String(),
	}, runAt)
	if err != nil {
		return fmt.Errorf("enqueue reminder for service %d: %w", scheduled.ServiceID, err)
	}

	e.log.Info("service reminder enqueued", "service", scheduled.ServiceID, "runAt", runAt.Format(time.RFC3339))
	return nil
}
