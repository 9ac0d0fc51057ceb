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

const entryNotFoundMessage = "time clock entry not found"

const entryColumns = `
	e.entry_id, e.collaborator_id, e.clock_in, e.clock_out, e.note, u.full_name`

const entryJoins = `
	FROM time_clock_entries e
	LEFT JOIN users u ON u.user_id = e.collaborator_id`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new timeclock repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// OpenEntry returns the collaborator's currently open entry.
func (r *Repo) OpenEntry(ctx context.Context, collaboratorID uuid.UUID) (Entry, error) {
	query := `SELECT ` + entryColumns + entryJoins + `
		WHERE e.collaborator_id = $1 AND e.clock_out IS NULL
		ORDER BY e.clock_in DESC
		LIMIT 1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, collaboratorID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, apperr.NotFound(entryNotFoundMessage)
	}
	return entry, err
}

// ClockIn opens a new entry.
func (r *Repo) ClockIn(ctx context.Context, collaboratorID uuid.UUID, at time.Time, note *string) (Entry, error) {
	query := `
		INSERT INTO time_clock_entries (collaborator_id, clock_in, note)
		VALUES ($1, $2, $3)
		RETURNING entry_id`

	var id int64
	if err := r.pool.QueryRow(ctx, query, collaboratorID, at, note).Scan(&id); err != nil {
		return Entry{}, fmt.Errorf("failed to clock in: %w", err)
	}
	return r.getByID(ctx, id)
}

// ClockOut closes an open entry.
func (r *Repo) ClockOut(ctx context.Context, entryID int64, at time.Time) (Entry, error) {
	query := `
		UPDATE time_clock_entries
		SET clock_out = $2
		WHERE entry_id = $1 AND clock_out IS NULL`

	tag, err := r.pool.Exec(ctx, query, entryID, at)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to clock out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Entry{}, apperr.NotFound(entryNotFoundMessage)
	}
	return r.getByID(ctx, entryID)
}

// ListForCollaborator returns a collaborator's entries within [from, to).
func (r *Repo) ListForCollaborator(ctx context.Context, collaboratorID uuid.UUID, from, to time.Time) ([]Entry, error) {
	query := `SELECT ` + entryColumns + entryJoins + `
		WHERE e.collaborator_id = $1 AND e.clock_in >= $2 AND e.clock_in < $3
		ORDER BY e.clock_in DESC`

	return r.queryEntries(ctx, query, collaboratorID, from, to)
}

// ListForTeam returns entries of a team's members within [from, to).
func (r *Repo) ListForTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]Entry, error) {
	query := `SELECT ` + entryColumns + entryJoins + `
		JOIN team_members tm ON tm.user_id = e.collaborator_id
		WHERE tm.team_id = $1 AND e.clock_in >= $2 AND e.clock_in < $3
		ORDER BY e.clock_in DESC`

	return r.queryEntries(ctx, query, teamID, from, to)
}

func (r *Repo) getByID(ctx context.Context, id int64) (Entry, error) {
	query := `SELECT ` + entryColumns + entryJoins + ` WHERE e.entry_id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, apperr.NotFound(entryNotFoundMessage)
	}
	return entry, err
}

func (r *Repo) queryEntries(ctx context.Context, query string, args ...interface{}) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time clock entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (Entry, error) {
	var entry Entry
	err := row.Scan(
		&entry.ID,
		&entry.CollaboratorID,
		&entry.ClockIn,
		&entry.ClockOut,
		&entry.Note,
		&entry.CollaboratorName,
	)
	return entry, err
}
