// Package scheduler enqueues and processes delayed background tasks with
// asynq. The API binary enqueues; the worker binary consumes.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskServiceReminder = "schedule.service.reminder"

type ServiceReminderPayload struct {
	ServiceID int64  `json:"serviceId"`
	TeamID    string `json:"teamId"`
}

func NewServiceReminderTask(payload ServiceReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskServiceReminder, data), nil
}

func ParseServiceReminderPayload(task *asynq.Task) (ServiceReminderPayload, error) {
	var payload ServiceReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ServiceReminderPayload{}, err
	}
	return payload, nil
}
