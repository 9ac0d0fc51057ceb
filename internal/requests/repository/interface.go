package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request is a service request row with resolved relation names.
type Request struct {
	ID            int64
	CompanyID     uuid.UUID
	BranchID      *uuid.UUID
	CatalogID     *int64
	TeamID        *uuid.UUID
	Status        string
	Description   *string
	ContactPhone  *string
	RequestedDate *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	CompanyName *string
	BranchArea  *string
	ServiceName *string
	TeamName    *string
}

// ListFilters narrows request listings. Zero values disable a filter.
type ListFilters struct {
	Status    string
	Search    string
	CompanyID uuid.UUID
	Limit     int
	Offset    int
}

// CreateParams contains parameters for opening a request.
type CreateParams struct {
	CompanyID     uuid.UUID
	BranchID      *uuid.UUID
	CatalogID     *int64
	Description   *string
	ContactPhone  *string
	RequestedDate *time.Time
}

// Repository provides service request persistence.
type Repository interface {
	// List returns requests newest-first with the total match count.
	List(ctx context.Context, filters ListFilters) ([]Request, int64, error)
	GetByID(ctx context.Context, id int64) (Request, error)
	Create(ctx context.Context, params CreateParams) (Request, error)
	// UpdateStatus sets the status, also assigning the team when given.
	UpdateStatus(ctx context.Context, id int64, status string, teamID *uuid.UUID) (Request, error)
	// CountByStatus tallies requests per raw status value.
	CountByStatus(ctx context.Context) (map[string]int64, error)
	// CompanyIDForUser resolves a client user's company. Returns
	// (uuid.Nil, nil) when the user has no company.
	CompanyIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
