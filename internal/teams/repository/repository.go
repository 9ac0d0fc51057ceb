package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops_backend/platform/apperr"
)

const teamNotFoundMessage = "team not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new teams repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns teams with members, optionally restricted to one manager.
func (r *Repo) List(ctx context.Context, managerID uuid.UUID, includeInactive bool) ([]Team, error) {
	query := `
		SELECT t.team_id, t.name, t.manager_id, u.full_name, t.is_active, t.created_at, t.updated_at
		FROM teams t
		LEFT JOIN users u ON u.user_id = t.manager_id
		WHERE 1=1`
	args := []interface{}{}

	if !includeInactive {
		query += ` AND t.is_active = true`
	}
	if managerID != uuid.Nil {
		args = append(args, managerID)
		query += fmt.Sprintf(` AND t.manager_id = $%d`, len(args))
	}
	query += ` ORDER BY t.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.ManagerID, &team.ManagerName,
			&team.IsActive, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		members, err := r.listMembers(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Members = members
	}
	return teams, nil
}

// GetByID returns one team with its members.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Team, error) {
	query := `
		SELECT t.team_id, t.name, t.manager_id, u.full_name, t.is_active, t.created_at, t.updated_at
		FROM teams t
		LEFT JOIN users u ON u.user_id = t.manager_id
		WHERE t.team_id = $1`

	var team Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&team.ID, &team.Name, &team.ManagerID,
		&team.ManagerName, &team.IsActive, &team.CreatedAt, &team.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Team{}, apperr.NotFound(teamNotFoundMessage)
	}
	if err != nil {
		return Team{}, fmt.Errorf("failed to load team: %w", err)
	}

	team.Members, err = r.listMembers(ctx, id)
	return team, err
}

// Create inserts the team and its membership in one transaction.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Team, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Team{}, fmt.Errorf("begin create team: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO teams (name, manager_id)
		VALUES ($1, $2)
		RETURNING team_id`,
		params.Name, params.ManagerID).Scan(&id)
	if err != nil {
		return Team{}, fmt.Errorf("insert team: %w", err)
	}

	if err := insertMembers(ctx, tx, id, params.MemberIDs); err != nil {
		return Team{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Team{}, fmt.Errorf("commit create team: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update edits the team and replaces its full membership in one
// transaction.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Team, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Team{}, fmt.Errorf("begin update team: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE teams
		SET name = $2, manager_id = $3, updated_at = NOW()
		WHERE team_id = $1`,
		id, params.Name, params.ManagerID)
	if err != nil {
		return Team{}, fmt.Errorf("update team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Team{}, apperr.NotFound(teamNotFoundMessage)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, id); err != nil {
		return Team{}, fmt.Errorf("clear team members: %w", err)
	}
	if err := insertMembers(ctx, tx, id, params.MemberIDs); err != nil {
		return Team{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Team{}, fmt.Errorf("commit update team: %w", err)
	}

	return r.GetByID(ctx, id)
}

// SetActive toggles a team's active flag.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE teams SET is_active = $2, updated_at = NOW() WHERE team_id = $1`,
		id, active)
	if err != nil {
		return fmt.Errorf("failed to toggle team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(teamNotFoundMessage)
	}
	return nil
}

func (r *Repo) listMembers(ctx context.Context, teamID uuid.UUID) ([]Member, error) {
	query := `
		SELECT tm.user_id, u.full_name
		FROM team_members tm
		JOIN users u ON u.user_id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.full_name`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.UserID, &member.FullName); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func insertMembers(ctx context.Context, tx pgx.Tx, teamID uuid.UUID, memberIDs []uuid.UUID) error {
	for _, userID := range memberIDs {
		_, err := tx.Exec(ctx, `
			INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`,
			teamID, userID)
		if err != nil {
			return fmt.Errorf("insert team member: %w", err)
		}
	}
	return nil
}
