package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/events"
	"fieldops_backend/internal/schedule/repository"
	"fieldops_backend/internal/schedule/transport"
	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"

	defaultAgendaDays = 7
	maxRangeDays      = 92
)

const (
	fallbackClientName  = "N/A"
	fallbackClientArea  = "central"
	fallbackServiceName = "Ad-hoc service"
	fallbackTeamName    = "Unassigned"
)

// Service provides scheduling business logic.
type Service struct {
	repo repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

// New creates a new schedule service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// ListByDateRange returns services scheduled in the inclusive date range.
func (s *Service) ListByDateRange(ctx context.Context, req transport.ListServicesRequest) (transport.ServiceListResponse, error) {
	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return transport.ServiceListResponse{}, apperr.BadRequest("invalid from date")
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return transport.ServiceListResponse{}, apperr.BadRequest("invalid to date")
	}
	if to.Before(from) {
		return transport.ServiceListResponse{}, apperr.BadRequest("date range is reversed")
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return transport.ServiceListResponse{}, apperr.BadRequest("date range too wide")
	}

	rows, err := s.repo.ListByDateRange(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return transport.ServiceListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list schedule", err)
	}
	return toListResponse(rows), nil
}

// Agenda returns the collaborator's own services starting at from (default
// today) for the given day span.
func (s *Service) Agenda(ctx context.Context, collaboratorID uuid.UUID, req transport.AgendaRequest) (transport.ServiceListResponse, error) {
	from := time.Now().Truncate(24 * time.Hour)
	if req.From != "" {
		parsed, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return transport.ServiceListResponse{}, apperr.BadRequest("invalid from date")
		}
		from = parsed
	}

	days := req.Days
	if days < 1 {
		days = defaultAgendaDays
	}

	rows, err := s.repo.ListForCollaborator(ctx, collaboratorID, from, from.AddDate(0, 0, days))
	if err != nil {
		return transport.ServiceListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load agenda", err)
	}
	return toListResponse(rows), nil
}

// GetByID returns one scheduled service.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.ServiceResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ServiceResponse{}, err
		}
		return transport.ServiceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load scheduled service", err)
	}
	return toResponse(row), nil
}

// Create schedules a service visit and publishes ServiceScheduled so a
// reminder can be enqueued.
func (s *Service) Create(ctx context.Context, req transport.CreateServiceRequest) (transport.ServiceResponse, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return transport.ServiceResponse{}, apperr.BadRequest("invalid company id")
	}

	scheduledFor, err := time.Parse(dateLayout+" "+timeLayout, req.ScheduledDate+" "+req.ScheduledTime)
	if err != nil {
		return transport.ServiceResponse{}, apperr.BadRequest("invalid scheduled date or time")
	}
	if scheduledFor.Before(time.Now()) {
		return transport.ServiceResponse{}, apperr.BadRequest("cannot schedule in the past")
	}

	params := repository.CreateParams{
		RequestID:    req.RequestID,
		CompanyID:    companyID,
		CatalogID:    req.CatalogID,
		Notes:        req.Notes,
		ScheduledFor: scheduledFor,
	}
	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return transport.ServiceResponse{}, apperr.BadRequest("invalid branch id")
		}
		params.BranchID = &branchID
	}
	if req.TeamID != nil {
		teamID, err := uuid.Parse(*req.TeamID)
		if err != nil {
			return transport.ServiceResponse{}, apperr.BadRequest("invalid team id")
		}
		params.TeamID = &teamID
	}

	row, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.ServiceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to schedule service", err)
	}

	s.log.Info("service scheduled", "service", row.ID, "for", scheduledFor.Format(dateLayout+" "+timeLayout))

	if s.bus != nil && row.TeamID != nil {
		s.bus.Publish(ctx, events.ServiceScheduled{
			BaseEvent:    events.NewBaseEvent(),
			ServiceID:    row.ID,
			TeamID:       *row.TeamID,
			ScheduledFor: row.ScheduledFor,
		})
	}

	return toResponse(row), nil
}

// UpdateStatus moves a scheduled service through the status machine.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req transport.UpdateStatusRequest) (transport.ServiceResponse, error) {
	next, ok := status.Canonical(req.Status)
	if !ok {
		return transport.ServiceResponse{}, apperr.BadRequest(fmt.Sprintf("unknown status %q", req.Status))
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ServiceResponse{}, err
		}
		return transport.ServiceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load scheduled service", err)
	}

	current, ok := status.Canonical(row.Status)
	if !ok {
		current = status.Scheduled
	}
	if !current.CanTransition(next) {
		return transport.ServiceResponse{}, apperr.Conflict(
			fmt.Sprintf("cannot move service from %s to %s", current, next))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(next))
	if err != nil {
		return transport.ServiceResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update scheduled service", err)
	}

	s.log.Info("scheduled service status changed", "service", id, "from", string(current), "to", string(next))
	return toResponse(updated), nil
}

func toListResponse(rows []repository.ScheduledService) transport.ServiceListResponse {
	items := make([]transport.ServiceResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toResponse(row))
	}
	return transport.ServiceListResponse{Items: items, Total: len(items)}
}

func toResponse(row repository.ScheduledService) transport.ServiceResponse {
	canon, ok := status.Canonical(row.Status)
	if !ok {
		canon = status.Scheduled
	}

	resp := transport.ServiceResponse{
		ID:            fmt.Sprintf("SERV-%06d", row.ID),
		ClientName:    stringOr(row.CompanyName, fallbackClientName),
		ClientArea:    stringOr(row.BranchArea, fallbackClientArea),
		ServiceType:   stringOr(row.ServiceName, fallbackServiceName),
		TeamName:      stringOr(row.TeamName, fallbackTeamName),
		Status:        string(canon),
		StatusLabel:   canon.Label(),
		Notes:         row.Notes,
		ScheduledDate: row.ScheduledFor.Format(dateLayout),
		ScheduledTime: row.ScheduledFor.Format(timeLayout),
	}
	if row.RequestID != nil {
		resp.RequestID = fmt.Sprintf("REQ-%06d", *row.RequestID)
	}
	return resp
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
