package notification

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops_backend/internal/events"
	"fieldops_backend/internal/notification/email"
	"fieldops_backend/internal/notification/repository"
	"fieldops_backend/platform/config"
	"fieldops_backend/platform/logger"
)

// Module wires the notifier into the event bus. Unlike the HTTP bounded
// contexts it registers no routes.
type Module struct {
	notifier *Notifier
}

// NewModule creates the notification module and subscribes it to the bus.
func NewModule(pool *pgxpool.Pool, bus events.Bus, cfg config.EmailConfig, log *logger.Logger) *Module {
	var sender email.Sender
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		)
	} else {
		log.Warn("email delivery disabled, notifications will be logged only")
	}

	notifier := NewNotifier(repository.New(pool), sender, log)
	notifier.Register(bus)

	return &Module{notifier: notifier}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}
