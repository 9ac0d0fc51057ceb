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

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new notification repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// TeamMemberRecipients returns the active members of a team.
func (r *Repo) TeamMemberRecipients(ctx context.Context, teamID uuid.UUID) ([]Recipient, error) {
	query := `
		SELECT u.email, u.full_name
		FROM team_members tm
		JOIN users u ON u.user_id = tm.user_id
		WHERE tm.team_id = $1 AND u.is_active = TRUE
		ORDER BY u.full_name`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team recipients: %w", err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var rec Recipient
		if err := rows.Scan(&rec.Email, &rec.FullName); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ServiceScheduledFor returns when a scheduled service takes place.
func (r *Repo) ServiceScheduledFor(ctx context.Context, serviceID int64) (time.Time, error) {
	query := `SELECT scheduled_for FROM scheduled_services WHERE service_id = $1`

	var scheduledFor time.Time
	err := r.pool.QueryRow(ctx, query, serviceID).Scan(&scheduledFor)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, apperr.NotFound("scheduled service not found")
	}
	return scheduledFor, err
}
