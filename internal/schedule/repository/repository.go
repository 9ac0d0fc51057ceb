package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops_backend/platform/apperr"
)

const serviceNotFoundMessage = "scheduled service not found"

const serviceColumns = `
	s.service_id, s.request_id, s.company_id, s.branch_id, s.catalog_id,
	s.team_id, s.status, s.notes, s.scheduled_for, s.created_at, s.updated_at,
	c.name, b.area, sc.name, t.name`

const serviceJoins = `
	FROM scheduled_services s
	LEFT JOIN companies c ON c.company_id = s.company_id
	LEFT JOIN client_branches b ON b.branch_id = s.branch_id
	LEFT JOIN service_catalog sc ON sc.catalog_id = s.catalog_id
	LEFT JOIN teams t ON t.team_id = s.team_id`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new schedule repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListByDateRange returns services scheduled within [from, to), soonest
// first.
func (r *Repo) ListByDateRange(ctx context.Context, from, to time.Time) ([]ScheduledService, error) {
	query := `SELECT ` + serviceColumns + serviceJoins + `
		WHERE s.scheduled_for >= $1 AND s.scheduled_for < $2
		ORDER BY s.scheduled_for`

	return r.queryServices(ctx, query, from, to)
}

// ListForCollaborator returns services of the collaborator's teams within
// [from, to), soonest first.
func (r *Repo) ListForCollaborator(ctx context.Context, collaboratorID uuid.UUID, from, to time.Time) ([]ScheduledService, error) {
	query := `SELECT ` + serviceColumns + serviceJoins + `
		JOIN team_members tm ON tm.team_id = s.team_id
		WHERE tm.user_id = $1
		  AND s.scheduled_for >= $2 AND s.scheduled_for < $3
		ORDER BY s.scheduled_for`

	return r.queryServices(ctx, query, collaboratorID, from, to)
}

// GetByID returns one scheduled service.
func (r *Repo) GetByID(ctx context.Context, id int64) (ScheduledService, error) {
	query := `SELECT ` + serviceColumns + serviceJoins + ` WHERE s.service_id = $1`

	svc, err := scanService(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return ScheduledService{}, apperr.NotFound(serviceNotFoundMessage)
	}
	return svc, err
}

// Create schedules a service in scheduled state.
func (r *Repo) Create(ctx context.Context, params CreateParams) (ScheduledService, error) {
	query := `
		INSERT INTO scheduled_services
			(request_id, company_id, branch_id, catalog_id, team_id, notes, scheduled_for, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'scheduled')
		RETURNING service_id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		params.RequestID, params.CompanyID, params.BranchID,
		params.CatalogID, params.TeamID, params.Notes, params.ScheduledFor).Scan(&id)
	if err != nil {
		return ScheduledService{}, fmt.Errorf("failed to create scheduled service: %w", err)
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus sets a scheduled service's status.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status string) (ScheduledService, error) {
	query := `
		UPDATE scheduled_services
		SET status = $2, updated_at = NOW()
		WHERE service_id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return ScheduledService{}, fmt.Errorf("failed to update scheduled service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ScheduledService{}, apperr.NotFound(serviceNotFoundMessage)
	}

	return r.GetByID(ctx, id)
}

func (r *Repo) queryServices(ctx context.Context, query string, args ...interface{}) ([]ScheduledService, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled services: %w", err)
	}
	defer rows.Close()

	var out []ScheduledService
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, rows.Err()
}

func scanService(row pgx.Row) (ScheduledService, error) {
	var svc ScheduledService
	err := row.Scan(
		&svc.ID,
		&svc.RequestID,
		&svc.CompanyID,
		&svc.BranchID,
		&svc.CatalogID,
		&svc.TeamID,
		&svc.Status,
		&svc.Notes,
		&svc.ScheduledFor,
		&svc.CreatedAt,
		&svc.UpdatedAt,
		&svc.CompanyName,
		&svc.BranchArea,
		&svc.ServiceName,
		&svc.TeamName,
	)
	return svc, err
}
