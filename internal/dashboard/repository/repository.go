package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new dashboard repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// AdminCounts returns the admin headline counters in one round trip.
func (r *Repo) AdminCounts(ctx context.Context) (AdminCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM teams WHERE is_active = true),
			(SELECT COUNT(*) FROM service_requests),
			(SELECT COUNT(*) FROM companies WHERE is_active = true)`

	var counts AdminCounts
	err := r.pool.QueryRow(ctx, query).Scan(
		&counts.ActiveTeams,
		&counts.ServiceOrders,
		&counts.ActiveCompanies,
	)
	if err != nil {
		return AdminCounts{}, fmt.Errorf("failed to count admin totals: %w", err)
	}
	return counts, nil
}

// StatusTally counts service requests per raw status value. Normalization
// to canonical buckets happens in the service layer.
func (r *Repo) StatusTally(ctx context.Context) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM service_requests
		GROUP BY status`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to tally request statuses: %w", err)
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

// ActiveRequests returns the newest non-terminal requests joined with
// client and team names, at most limit rows.
func (r *Repo) ActiveRequests(ctx context.Context, limit int) ([]ActiveRequest, error) {
	query := `
		SELECT
			sr.request_id, sr.status, c.name, t.name, sc.name
		FROM service_requests sr
		LEFT JOIN companies c ON c.company_id = sr.company_id
		LEFT JOIN teams t ON t.team_id = sr.team_id
		LEFT JOIN service_catalog sc ON sc.catalog_id = sr.catalog_id
		-- status columns are CHECK-constrained to canonical values, so
		-- terminal filtering never needs the legacy aliases.
		WHERE sr.status NOT IN ('completed', 'cancelled')
		ORDER BY sr.created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list active requests: %w", err)
	}
	defer rows.Close()

	var out []ActiveRequest
	for rows.Next() {
		var req ActiveRequest
		if err := rows.Scan(&req.RequestID, &req.Status, &req.ClientName, &req.TeamName, &req.ServiceName); err != nil {
			return nil, fmt.Errorf("failed to scan active request: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ActiveTeams returns active teams with manager name and member count.
func (r *Repo) ActiveTeams(ctx context.Context) ([]TeamSummary, error) {
	query := `
		SELECT
			t.team_id, t.name, u.full_name,
			(SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.team_id)
		FROM teams t
		LEFT JOIN users u ON u.user_id = t.manager_id
		WHERE t.is_active = true
		ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active teams: %w", err)
	}
	defer rows.Close()

	var out []TeamSummary
	for rows.Next() {
		var team TeamSummary
		if err := rows.Scan(&team.TeamID, &team.Name, &team.ManagerName, &team.MemberCount); err != nil {
			return nil, fmt.Errorf("failed to scan team summary: %w", err)
		}
		out = append(out, team)
	}
	return out, rows.Err()
}

// PendingServiceCount counts a collaborator's not-yet-completed scheduled
// services.
func (r *Repo) PendingServiceCount(ctx context.Context, collaboratorID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM scheduled_services s
		JOIN team_members tm ON tm.team_id = s.team_id
		WHERE tm.user_id = $1
		  AND s.status NOT IN ('completed', 'cancelled')`

	var count int64
	if err := r.pool.QueryRow(ctx, query, collaboratorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending services: %w", err)
	}
	return count, nil
}

// CompanyIDForUser resolves the company a client user belongs to. A user
// without a company yields uuid.Nil without error.
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

// OpenRequestCount counts a company's non-terminal service requests.
func (r *Repo) OpenRequestCount(ctx context.Context, companyID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM service_requests
		WHERE company_id = $1
		  AND status NOT IN ('completed', 'cancelled')`

	var count int64
	if err := r.pool.QueryRow(ctx, query, companyID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open requests: %w", err)
	}
	return count, nil
}
