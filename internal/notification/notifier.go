// Package notification turns domain events into outgoing emails. It has no
// HTTP surface; it subscribes to the event bus and delivers in the
// background, logging failures without surfacing them to publishers.
package notification

import (
	"context"
	"fmt"

	"fieldops_backend/internal/events"
	"fieldops_backend/internal/notification/email"
	"fieldops_backend/internal/notification/repository"
	"fieldops_backend/platform/logger"
)

const (
	dateTimeLayout = "02/01/2006 15:04"

	serviceIDFormat = "SERV-%06d"
)

// Notifier handles notification-worthy domain events.
type Notifier struct {
	repo   repository.Repository
	sender email.Sender
	log    *logger.Logger
}

// NewNotifier creates a notifier. sender may be nil when email delivery is
// disabled; events are then logged and dropped.
func NewNotifier(repo repository.Repository, sender email.Sender, log *logger.Logger) *Notifier {
	return &Notifier{repo: repo, sender: sender, log: log}
}

// Register subscribes the notifier to the events it handles.
func (n *Notifier) Register(bus events.Bus) {
	bus.Subscribe(events.PhotoReviewSent{}.EventName(), events.HandlerFunc(n.handlePhotoReviewSent))
	bus.Subscribe(events.ServiceReminderDue{}.EventName(), events.HandlerFunc(n.handleServiceReminderDue))
}

func (n *Notifier) handlePhotoReviewSent(ctx context.Context, event events.Event) error {
	sent, ok := event.(events.PhotoReviewSent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if sent.ContactEmail == "" {
		n.log.Warn("photo review sent without contact email", "service", sent.ServiceID)
		return nil
	}
	if n.sender == nil {
		n.log.Info("email disabled, skipping photo review notification", "service", sent.ServiceID)
		return nil
	}

	serviceID := fmt.Sprintf(serviceIDFormat, sent.ServiceID)
	if err := n.sender.SendPhotoReviewEmail(ctx, sent.ContactEmail, sent.CompanyName, serviceID, sent.ManagerNotes); err != nil {
		return fmt.Errorf("photo review email for %s: %w", serviceID, err)
	}

	n.log.Info("photo review email sent", "service", serviceID, "to", sent.ContactEmail)
	return nil
}

func (n *Notifier) handleServiceReminderDue(ctx context.Context, event events.Event) error {
	due, ok := event.(events.ServiceReminderDue)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}
	if n.sender == nil {
		n.log.Info("email disabled, skipping service reminder", "service", due.ServiceID)
		return nil
	}

	scheduledFor, err := n.repo.ServiceScheduledFor(ctx, due.ServiceID)
	if err != nil {
		return fmt.Errorf("load service %d for reminder: %w", due.ServiceID, err)
	}
	recipients, err := n.repo.TeamMemberRecipients(ctx, due.TeamID)
	if err != nil {
		return fmt.Errorf("load team %s recipients: %w", due.TeamID, err)
	}
	if len(recipients) == 0 {
		n.log.Warn("service reminder has no recipients", "service", due.ServiceID, "team", due.TeamID.String())
		return nil
	}

	serviceID := fmt.Sprintf(serviceIDFormat, due.ServiceID)
	scheduledDate := scheduledFor.Format(dateTimeLayout)

	var failed int
	for _, rec := range recipients {
		if err := n.sender.SendServiceReminderEmail(ctx, rec.Email, rec.FullName, serviceID, scheduledDate); err != nil {
			failed++
			n.log.Error("service reminder email failed", "service", serviceID, "to", rec.Email, "error", err.Error())
		}
	}

	n.log.Info("service reminder emails dispatched",
		"service", serviceID,
		"recipients", len(recipients)-failed,
		"failed", failed,
	)
	return nil
}
