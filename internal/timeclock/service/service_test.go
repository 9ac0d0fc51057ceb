package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/timeclock/repository"
	"fieldops_backend/internal/timeclock/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	entries []repository.Entry
	nextID  int64
	teams   map[uuid.UUID][]uuid.UUID

	openErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, teams: map[uuid.UUID][]uuid.UUID{}}
}

func (f *fakeRepo) OpenEntry(_ context.Context, collaboratorID uuid.UUID) (repository.Entry, error) {
	if f.openErr != nil {
		return repository.Entry{}, f.openErr
	}
	for _, e := range f.entries {
		if e.CollaboratorID == collaboratorID && e.ClockOut == nil {
			return e, nil
		}
	}
	return repository.Entry{}, apperr.NotFound("time clock entry not found")
}

func (f *fakeRepo) ClockIn(_ context.Context, collaboratorID uuid.UUID, at time.Time, note *string) (repository.Entry, error) {
	entry := repository.Entry{
		ID:             f.nextID,
		CollaboratorID: collaboratorID,
		ClockIn:        at,
		Note:           note,
	}
	f.nextID++
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeRepo) ClockOut(_ context.Context, entryID int64, at time.Time) (repository.Entry, error) {
	for i, e := range f.entries {
		if e.ID == entryID && e.ClockOut == nil {
			f.entries[i].ClockOut = &at
			return f.entries[i], nil
		}
	}
	return repository.Entry{}, apperr.NotFound("time clock entry not found")
}

func (f *fakeRepo) ListForCollaborator(_ context.Context, collaboratorID uuid.UUID, from, to time.Time) ([]repository.Entry, error) {
	var out []repository.Entry
	for _, e := range f.entries {
		if e.CollaboratorID == collaboratorID && !e.ClockIn.Before(from) && e.ClockIn.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForTeam(_ context.Context, teamID uuid.UUID, from, to time.Time) ([]repository.Entry, error) {
	members := map[uuid.UUID]bool{}
	for _, id := range f.teams[teamID] {
		members[id] = true
	}
	var out []repository.Entry
	for _, e := range f.entries {
		if members[e.CollaboratorID] && !e.ClockIn.Before(from) && e.ClockIn.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func strPtr(s string) *string { return &s }

func TestClockInOpensEntry(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	at := time.Date(2026, 1, 5, 8, 30, 0, 0, time.UTC)
	svc := NewWithClock(repo, fixedClock(at), logger.New("test"))

	resp, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{Note: strPtr("morning shift")})
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if !resp.Open {
		t.Error("expected entry to be open")
	}
	if resp.ClockIn != "08:30" {
		t.Errorf("clockIn = %q, want 08:30", resp.ClockIn)
	}
	if resp.Date != "05/01/2026" {
		t.Errorf("date = %q, want 05/01/2026", resp.Date)
	}
	if resp.ClockOut != nil || resp.DurationMinutes != nil {
		t.Error("open entry must not carry clock-out or duration")
	}
	if resp.Note == nil || *resp.Note != "morning shift" {
		t.Errorf("note = %v, want morning shift", resp.Note)
	}
}

func TestClockInTwiceConflicts(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	svc := NewWithClock(repo, fixedClock(time.Now()), logger.New("test"))

	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatalf("first ClockIn: %v", err)
	}
	_, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second ClockIn kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestClockInRepoFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.openErr = context.DeadlineExceeded
	svc := NewWithClock(repo, fixedClock(time.Now()), logger.New("test"))

	_, err := svc.ClockIn(context.Background(), uuid.New(), transport.ClockInRequest{})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("kind = %v, want internal", apperr.GetKind(err))
	}
}

func TestClockOutClosesEntryWithDuration(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	in := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	out := in.Add(7*time.Hour + 45*time.Minute)

	svc := NewWithClock(repo, fixedClock(in), logger.New("test"))
	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	svc.now = fixedClock(out)
	resp, err := svc.ClockOut(context.Background(), collaborator)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if resp.Open {
		t.Error("expected entry to be closed")
	}
	if resp.ClockOut == nil || *resp.ClockOut != "15:45" {
		t.Errorf("clockOut = %v, want 15:45", resp.ClockOut)
	}
	if resp.DurationMinutes == nil || *resp.DurationMinutes != 465 {
		t.Errorf("durationMinutes = %v, want 465", resp.DurationMinutes)
	}
}

func TestClockOutWithoutOpenEntryConflicts(t *testing.T) {
	svc := NewWithClock(newFakeRepo(), fixedClock(time.Now()), logger.New("test"))

	_, err := svc.ClockOut(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("kind = %v, want conflict", apperr.GetKind(err))
	}
}

func TestClockInAgainAfterClockOut(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	svc := NewWithClock(repo, fixedClock(time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)), logger.New("test"))

	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	svc.now = fixedClock(time.Date(2026, 1, 5, 17, 0, 0, 0, time.UTC))
	if _, err := svc.ClockOut(context.Background(), collaborator); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	svc.now = fixedClock(time.Date(2026, 1, 6, 8, 0, 0, 0, time.UTC))
	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatalf("ClockIn next day: %v", err)
	}
}

func TestListMineSumsClosedEntries(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	day1 := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)

	svc := NewWithClock(repo, fixedClock(day1), logger.New("test"))
	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatal(err)
	}
	svc.now = fixedClock(day1.Add(8 * time.Hour))
	if _, err := svc.ClockOut(context.Background(), collaborator); err != nil {
		t.Fatal(err)
	}
	svc.now = fixedClock(day2)
	if _, err := svc.ClockIn(context.Background(), collaborator, transport.ClockInRequest{}); err != nil {
		t.Fatal(err)
	}

	svc.now = fixedClock(day2.Add(time.Hour))
	resp, err := svc.ListMine(context.Background(), collaborator, transport.RangeQuery{From: "05/01/2026", To: "06/01/2026"})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(resp.Entries))
	}
	// Only the closed entry contributes to the total.
	if resp.TotalMinutes != 480 {
		t.Errorf("totalMinutes = %d, want 480", resp.TotalMinutes)
	}
}

func TestListMineRangeValidation(t *testing.T) {
	svc := NewWithClock(newFakeRepo(), fixedClock(time.Now()), logger.New("test"))

	tests := []struct {
		name string
		req  transport.RangeQuery
	}{
		{"malformed from", transport.RangeQuery{From: "2026-01-05", To: "06/01/2026"}},
		{"malformed to", transport.RangeQuery{From: "05/01/2026", To: "garbage"}},
		{"reversed", transport.RangeQuery{From: "10/01/2026", To: "05/01/2026"}},
		{"too wide", transport.RangeQuery{From: "01/01/2026", To: "31/12/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListMine(context.Background(), uuid.New(), tt.req)
			if !apperr.Is(err, apperr.KindBadRequest) {
				t.Fatalf("kind = %v, want bad request", apperr.GetKind(err))
			}
		})
	}
}

func TestListMineDefaultsToLastWeek(t *testing.T) {
	repo := newFakeRepo()
	collaborator := uuid.New()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	old := now.AddDate(0, 0, -10)
	recent := now.AddDate(0, 0, -2)
	repo.entries = []repository.Entry{
		{ID: 1, CollaboratorID: collaborator, ClockIn: old, ClockOut: &old},
		{ID: 2, CollaboratorID: collaborator, ClockIn: recent, ClockOut: &recent},
	}

	svc := NewWithClock(repo, fixedClock(now), logger.New("test"))
	resp, err := svc.ListMine(context.Background(), collaborator, transport.RangeQuery{})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].ID != 2 {
		t.Fatalf("expected only the recent entry, got %+v", resp.Entries)
	}
}

func TestListForTeamScopesToMembers(t *testing.T) {
	repo := newFakeRepo()
	teamID := uuid.New()
	member := uuid.New()
	outsider := uuid.New()
	repo.teams[teamID] = []uuid.UUID{member}

	at := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	repo.entries = []repository.Entry{
		{ID: 1, CollaboratorID: member, ClockIn: at, CollaboratorName: strPtr("Ana Souza")},
		{ID: 2, CollaboratorID: outsider, ClockIn: at},
	}

	svc := NewWithClock(repo, fixedClock(at.Add(time.Hour)), logger.New("test"))
	resp, err := svc.ListForTeam(context.Background(), teamID, transport.RangeQuery{From: "05/01/2026", To: "05/01/2026"})
	if err != nil {
		t.Fatalf("ListForTeam: %v", err)
	}
	if len(resp.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(resp.Entries))
	}
	if resp.Entries[0].CollaboratorName != "Ana Souza" {
		t.Errorf("collaboratorName = %q, want Ana Souza", resp.Entries[0].CollaboratorName)
	}
}

func TestEntryResponseFallbackName(t *testing.T) {
	at := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	resp := toResponse(repository.Entry{ID: 1, ClockIn: at})
	if resp.CollaboratorName != "N/A" {
		t.Errorf("collaboratorName = %q, want N/A", resp.CollaboratorName)
	}
}
