package repository

import (
	"context"

	"github.com/google/uuid"
)

// StatusCount is one bucket of the request status tally.
type StatusCount struct {
	Status string
	Count  int64
}

// ActiveRequest is one row of the manager's active-work list: a service
// request joined with its client and assigned team names. Join fields are
// pointers; unresolved relations stay nil and the view layer applies
// fallbacks.
type ActiveRequest struct {
	RequestID   int64
	Status      string
	ClientName  *string
	TeamName    *string
	ServiceName *string
}

// TeamSummary is a team with its current member count.
type TeamSummary struct {
	TeamID      uuid.UUID
	Name        string
	ManagerName *string
	MemberCount int64
}

// AdminCounts holds the admin dashboard's headline numbers.
type AdminCounts struct {
	ActiveTeams     int64
	ServiceOrders   int64
	ActiveCompanies int64
}

// Repository provides the isolated read queries the dashboard pipelines run.
// Each method is independent so a failing query degrades only its section.
type Repository interface {
	// AdminCounts returns the admin headline counters.
	AdminCounts(ctx context.Context) (AdminCounts, error)
	// StatusTally counts service requests per raw status value.
	StatusTally(ctx context.Context) ([]StatusCount, error)
	// ActiveRequests returns the newest non-terminal requests, at most limit.
	ActiveRequests(ctx context.Context, limit int) ([]ActiveRequest, error)
	// ActiveTeams returns active teams with member counts.
	ActiveTeams(ctx context.Context) ([]TeamSummary, error)
	// PendingServiceCount counts a collaborator's not-yet-completed
	// scheduled services.
	PendingServiceCount(ctx context.Context, collaboratorID uuid.UUID) (int64, error)
	// CompanyIDForUser resolves the company a client user belongs to.
	// Returns (uuid.Nil, nil) when the user has no company.
	CompanyIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
	// OpenRequestCount counts a company's open (non-terminal) requests.
	OpenRequestCount(ctx context.Context, companyID uuid.UUID) (int64, error)
}
