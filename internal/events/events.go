// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"fieldops_backend/platform/events"
	"fieldops_backend/platform/logger"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Photo Review Domain Events
// =============================================================================

// PhotoReviewSent is published when a manager sends a service's photo set to
// the client. The notification module emails the company contact.
type PhotoReviewSent struct {
	BaseEvent
	ServiceID    int64     `json:"serviceId"`
	ReviewerID   uuid.UUID `json:"reviewerId"`
	CompanyName  string    `json:"companyName"`
	ContactEmail string    `json:"contactEmail"`
	ManagerNotes string    `json:"managerNotes,omitempty"`
}

func (e PhotoReviewSent) EventName() string { return "photoreview.sent" }

// =============================================================================
// Scheduling Domain Events
// =============================================================================

// ServiceScheduled is published when a scheduled service is created, so a
// reminder can be enqueued for the assigned team.
type ServiceScheduled struct {
	BaseEvent
	ServiceID    int64     `json:"serviceId"`
	TeamID       uuid.UUID `json:"teamId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

func (e ServiceScheduled) EventName() string { return "schedule.service.scheduled" }

// ServiceReminderDue is published by the scheduler worker when a reminder
// task fires for an upcoming scheduled service.
type ServiceReminderDue struct {
	BaseEvent
	ServiceID int64     `json:"serviceId"`
	TeamID    uuid.UUID `json:"teamId"`
}

func (e ServiceReminderDue) EventName() string { return "schedule.service.reminder_due" }
