package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops_backend/platform/apperr"
)

const requestNotFoundMessage = "service request not found"

const requestColumns = `
	sr.request_id, sr.company_id, sr.branch_id, sr.catalog_id, sr.team_id,
	sr.status, sr.description, sr.contact_phone, sr.requested_date, sr.created_at, sr.updated_at,
	c.name, b.area, sc.name, t.name`

const requestJoins = `
	FROM service_requests sr
	LEFT JOIN companies c ON c.company_id = sr.company_id
	LEFT JOIN client_branches b ON b.branch_id = sr.branch_id
	LEFT JOIN service_catalog sc ON sc.catalog_id = sr.catalog_id
	LEFT JOIN teams t ON t.team_id = sr.team_id`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new requests repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns requests newest-first with the total match count.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Request, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if filters.Status != "" {
		args = append(args, filters.Status)
		where += fmt.Sprintf(` AND sr.status = $%d`, len(args))
	}
	if filters.CompanyID != uuid.Nil {
		args = append(args, filters.CompanyID)
		where += fmt.Sprintf(` AND sr.company_id = $%d`, len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		where += fmt.Sprintf(` AND (LOWER(c.name) LIKE $%d OR LOWER(sc.name) LIKE $%d)`, len(args), len(args))
	}

	var total int64
	countQuery := `SELECT COUNT(*)` + requestJoins + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count requests: %w", err)
	}

	query := `SELECT ` + requestColumns + requestJoins + where + ` ORDER BY sr.created_at DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		args = append(args, filters.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, req)
	}
	return out, total, rows.Err()
}

// GetByID returns one request with resolved relation names.
func (r *Repo) GetByID(ctx context.Context, id int64) (Request, error) {
	query := `SELECT ` + requestColumns + requestJoins + ` WHERE sr.request_id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, apperr.NotFound(requestNotFoundMessage)
	}
	return req, err
}

// Create opens a request in pending state.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Request, error) {
	query := `
		INSERT INTO service_requests (company_id, branch_id, catalog_id, description, contact_phone, requested_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING request_id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		params.CompanyID, params.BranchID, params.CatalogID,
		params.Description, params.ContactPhone, params.RequestedDate).Scan(&id)
	if err != nil {
		return Request{}, fmt.Errorf("failed to create request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// UpdateStatus sets the status, also assigning the team when given.
func (r *Repo) UpdateStatus(ctx context.Context, id int64, status string, teamID *uuid.UUID) (Request, error) {
	query := `
		UPDATE service_requests
		SET status = $2, team_id = COALESCE($3, team_id), updated_at = NOW()
		WHERE request_id = $1`

	tag, err := r.pool.Exec(ctx, query, id, status, teamID)
	if err != nil {
		return Request{}, fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Request{}, apperr.NotFound(requestNotFoundMessage)
	}

	return r.GetByID(ctx, id)
}

// CountByStatus tallies requests per raw status value.
func (r *Repo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM service_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		out[status] = count
	}
	return out, rows.Err()
}

// CompanyIDForUser resolves a client user's company. A user without a
// company yields uuid.Nil without error.
func (r *Repo) CompanyIDForUser(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	query := `SELECT company_id FROM users WHERE user_id = $1 AND company_id IS NOT NULL`

	var companyID uuid.UUID
	err := r.pool.QueryRow(ctx, query, userID).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve user company: %w", err)
	}
	return companyID, nil
}

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID,
		&req.CompanyID,
		&req.BranchID,
		&req.CatalogID,
		&req.TeamID,
		&req.Status,
		&req.Description,
		&req.ContactPhone,
		&req.RequestedDate,
		&req.CreatedAt,
		&req.UpdatedAt,
		&req.CompanyName,
		&req.BranchArea,
		&req.ServiceName,
		&req.TeamName,
	)
	return req, err
}
