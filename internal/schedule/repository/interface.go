package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScheduledService is a concrete visit: a request turned into a dated,
// team-assigned job. Join-derived names are pointers with fallbacks applied
// in the service layer.
type ScheduledService struct {
	ID           int64
	RequestID    *int64
	CompanyID    uuid.UUID
	BranchID     *uuid.UUID
	CatalogID    *int64
	TeamID       *uuid.UUID
	Status       string
	Notes        *string
	ScheduledFor time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	CompanyName *string
	BranchArea  *string
	ServiceName *string
	TeamName    *string
}

// CreateParams contains parameters for scheduling a service.
type CreateParams struct {
	RequestID    *int64
	CompanyID    uuid.UUID
	BranchID     *uuid.UUID
	CatalogID    *int64
	TeamID       *uuid.UUID
	Notes        *string
	ScheduledFor time.Time
}

// Repository provides scheduled service persistence.
type Repository interface {
	// ListByDateRange returns services scheduled within [from, to),
	// soonest first.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]ScheduledService, error)
	// ListForCollaborator returns a collaborator's team services within
	// [from, to), soonest first.
	ListForCollaborator(ctx context.Context, collaboratorID uuid.UUID, from, to time.Time) ([]ScheduledService, error)
	GetByID(ctx context.Context, id int64) (ScheduledService, error)
	Create(ctx context.Context, params CreateParams) (ScheduledService, error)
	UpdateStatus(ctx context.Context, id int64, status string) (ScheduledService, error)
}
