package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry is one work period of a collaborator. ClockOut is nil while the
// entry is open.
type Entry struct {
	ID             int64
	CollaboratorID uuid.UUID
	ClockIn        time.Time
	ClockOut       *time.Time
	Note           *string

	CollaboratorName *string
}

// Repository provides time clock persistence.
type Repository interface {
	// OpenEntry returns the collaborator's currently open entry, or
	// NotFound when none is open.
	OpenEntry(ctx context.Context, collaboratorID uuid.UUID) (Entry, error)
	// ClockIn opens a new entry.
	ClockIn(ctx context.Context, collaboratorID uuid.UUID, at time.Time, note *string) (Entry, error)
	// ClockOut closes an open entry.
	ClockOut(ctx context.Context, entryID int64, at time.Time) (Entry, error)
	// ListForCollaborator returns a collaborator's entries within
	// [from, to), newest first.
	ListForCollaborator(ctx context.Context, collaboratorID uuid.UUID, from, to time.Time) ([]Entry, error)
	// ListForTeam returns entries of a team's members within [from, to),
	// newest first.
	ListForTeam(ctx context.Context, teamID uuid.UUID, from, to time.Time) ([]Entry, error)
}
