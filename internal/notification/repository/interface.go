package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Recipient is an addressable person for outgoing notifications.
type Recipient struct {
	Email    string
	FullName string
}

// Repository resolves notification recipients and event context.
type Repository interface {
	// TeamMemberRecipients returns the active members of a team.
	TeamMemberRecipients(ctx context.Context, teamID uuid.UUID) ([]Recipient, error)
	// ServiceScheduledFor returns when a scheduled service takes place.
	ServiceScheduledFor(ctx context.Context, serviceID int64) (time.Time, error)
}
