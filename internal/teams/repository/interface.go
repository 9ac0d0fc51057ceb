package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Team is a field team with its manager and members resolved.
type Team struct {
	ID          uuid.UUID
	Name        string
	ManagerID   *uuid.UUID
	ManagerName *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Members     []Member
}

// Member is one collaborator in a team.
type Member struct {
	UserID   uuid.UUID
	FullName string
}

// CreateParams contains parameters for creating a team.
type CreateParams struct {
	Name      string
	ManagerID *uuid.UUID
	MemberIDs []uuid.UUID
}

// UpdateParams contains parameters for updating a team. MemberIDs replaces
// the full membership.
type UpdateParams struct {
	Name      string
	ManagerID *uuid.UUID
	MemberIDs []uuid.UUID
}

// Repository provides team persistence.
type Repository interface {
	// List returns teams with members, optionally restricted to one
	// manager (uuid.Nil means all teams).
	List(ctx context.Context, managerID uuid.UUID, includeInactive bool) ([]Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (Team, error)
	// Create inserts the team and its membership in one transaction.
	Create(ctx context.Context, params CreateParams) (Team, error)
	// Update edits the team and replaces its membership in one
	// transaction.
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Team, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
