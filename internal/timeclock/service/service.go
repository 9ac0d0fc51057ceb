package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/timeclock/repository"
	"fieldops_backend/internal/timeclock/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"

	defaultRangeDays = 7
	maxRangeDays     = 92
)

const fallbackCollaboratorName = "N/A"

// Clock abstracts time.Now for tests.
type Clock func() time.Time

// Service provides time clock business logic.
type Service struct {
	repo repository.Repository
	now  Clock
	log  *logger.Logger
}

// New creates a new timeclock service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, now: time.Now, log: log}
}

// NewWithClock creates a service with an injected clock.
func NewWithClock(repo repository.Repository, now Clock, log *logger.Logger) *Service {
	return &Service{repo: repo, now: now, log: log}
}

// ClockIn opens a new entry for the collaborator. At most one entry can be
// open at a time.
func (s *Service) ClockIn(ctx context.Context, collaboratorID uuid.UUID, req transport.ClockInRequest) (transport.EntryResponse, error) {
	_, err := s.repo.OpenEntry(ctx, collaboratorID)
	switch {
	case err == nil:
		return transport.EntryResponse{}, apperr.Conflict("already clocked in")
	case !apperr.Is(err, apperr.KindNotFound):
		return transport.EntryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to check open entry", err)
	}

	entry, err := s.repo.ClockIn(ctx, collaboratorID, s.now(), req.Note)
	if err != nil {
		return transport.EntryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to clock in", err)
	}

	s.log.Info("collaborator clocked in", "collaborator", collaboratorID.String(), "entry", entry.ID)
	return toResponse(entry), nil
}

// ClockOut closes the collaborator's open entry.
func (s *Service) ClockOut(ctx context.Context, collaboratorID uuid.UUID) (transport.EntryResponse, error) {
	open, err := s.repo.OpenEntry(ctx, collaboratorID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.EntryResponse{}, apperr.Conflict("no open time clock entry")
		}
		return transport.EntryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to check open entry", err)
	}

	entry, err := s.repo.ClockOut(ctx, open.ID, s.now())
	if err != nil {
		return transport.EntryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to clock out", err)
	}

	s.log.Info("collaborator clocked out", "collaborator", collaboratorID.String(), "entry", entry.ID)
	return toResponse(entry), nil
}

// ListMine returns the collaborator's entries for the requested range.
func (s *Service) ListMine(ctx context.Context, collaboratorID uuid.UUID, req transport.RangeQuery) (transport.EntryListResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return transport.EntryListResponse{}, err
	}

	entries, err := s.repo.ListForCollaborator(ctx, collaboratorID, from, to)
	if err != nil {
		return transport.EntryListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list time clock entries", err)
	}
	return toListResponse(entries), nil
}

// ListForTeam returns entries of all team members for the requested range.
func (s *Service) ListForTeam(ctx context.Context, teamID uuid.UUID, req transport.RangeQuery) (transport.EntryListResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return transport.EntryListResponse{}, err
	}

	entries, err := s.repo.ListForTeam(ctx, teamID, from, to)
	if err != nil {
		return transport.EntryListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list team time clock entries", err)
	}
	return toListResponse(entries), nil
}

// resolveRange turns the optional dd/mm/yyyy bounds into a half-open
// timestamp range, defaulting to the last defaultRangeDays days.
func (s *Service) resolveRange(req transport.RangeQuery) (time.Time, time.Time, error) {
	now := s.now()
	to := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -defaultRangeDays)

	if req.From != "" {
		parsed, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.BadRequest("invalid from date")
		}
		from = parsed
	}
	if req.To != "" {
		parsed, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.BadRequest("invalid to date")
		}
		to = parsed.AddDate(0, 0, 1)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, apperr.BadRequest("date range is reversed")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.BadRequest("date range too wide")
	}
	return from, to, nil
}

func toListResponse(entries []repository.Entry) transport.EntryListResponse {
	items := make([]transport.EntryResponse, 0, len(entries))
	var total int64
	for _, entry := range entries {
		resp := toResponse(entry)
		if resp.DurationMinutes != nil {
			total += *resp.DurationMinutes
		}
		items = append(items, resp)
	}
	return transport.EntryListResponse{Entries: items, TotalMinutes: total}
}

func toResponse(entry repository.Entry) transport.EntryResponse {
	resp := transport.EntryResponse{
		ID:               entry.ID,
		CollaboratorName: stringOr(entry.CollaboratorName, fallbackCollaboratorName),
		Date:             entry.ClockIn.Format(dateLayout),
		ClockIn:          entry.ClockIn.Format(timeLayout),
		Note:             entry.Note,
		Open:             entry.ClockOut == nil,
	}
	if entry.ClockOut != nil {
		out := entry.ClockOut.Format(timeLayout)
		resp.ClockOut = &out
		minutes := int64(entry.ClockOut.Sub(entry.ClockIn) / time.Minute)
		resp.DurationMinutes = &minutes
	}
	return resp
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
