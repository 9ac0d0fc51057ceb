package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/requests/repository"
	"fieldops_backend/internal/requests/transport"
	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/phone"
)

const (
	defaultPageSize = 20
	dateLayout      = "02/01/2006"
)

// Fallbacks for unresolved relation names in listings.
const (
	fallbackClientName  = "N/A"
	fallbackClientArea  = "central"
	fallbackServiceName = "Ad-hoc service"
	fallbackTeamName    = "Unassigned"
)

// Service provides service request business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new requests service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns a paginated request listing. The status filter accepts
// canonical values, legacy aliases and the "all"/"todos" sentinels.
func (s *Service) List(ctx context.Context, req transport.ListRequestsRequest) (transport.RequestListResponse, error) {
	return s.list(ctx, req, uuid.Nil)
}

// ListMine narrows the listing to the client user's own company. A user
// without a company sees an empty page.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, req transport.ListRequestsRequest) (transport.RequestListResponse, error) {
	companyID, err := s.repo.CompanyIDForUser(ctx, userID)
	if err != nil {
		return transport.RequestListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to resolve company", err)
	}
	if companyID == uuid.Nil {
		return transport.RequestListResponse{
			Items:    []transport.RequestResponse{},
			Page:     1,
			PageSize: defaultPageSize,
		}, nil
	}
	return s.list(ctx, req, companyID)
}

// CreateMine opens a request for the client user's own company.
func (s *Service) CreateMine(ctx context.Context, userID uuid.UUID, req transport.CreateRequestRequest) (transport.RequestResponse, error) {
	companyID, err := s.repo.CompanyIDForUser(ctx, userID)
	if err != nil {
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "failed to resolve company", err)
	}
	return s.Create(ctx, companyID, req)
}

func (s *Service) list(ctx context.Context, req transport.ListRequestsRequest, companyID uuid.UUID) (transport.RequestListResponse, error) {
	statusFilter, err := resolveStatusFilter(req.Status)
	if err != nil {
		return transport.RequestListResponse{}, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	rows, total, err := s.repo.List(ctx, repository.ListFilters{
		Status:    statusFilter,
		Search:    strings.TrimSpace(req.Search),
		CompanyID: companyID,
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		return transport.RequestListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list requests", err)
	}

	items := make([]transport.RequestResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, toResponse(row))
	}

	return transport.RequestListResponse{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetByID returns one request.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.RequestResponse, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.RequestResponse{}, err
		}
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load request", err)
	}
	return toResponse(row), nil
}

// Create opens a request for the client user's company.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req transport.CreateRequestRequest) (transport.RequestResponse, error) {
	if companyID == uuid.Nil {
		return transport.RequestResponse{}, apperr.Forbidden("user has no company")
	}

	params := repository.CreateParams{
		CompanyID:   companyID,
		CatalogID:   req.CatalogID,
		Description: req.Description,
	}
	if req.ContactPhone != nil && *req.ContactPhone != "" {
		normalized := phone.NormalizeE164(*req.ContactPhone)
		params.ContactPhone = &normalized
	}

	if req.BranchID != nil {
		branchID, err := uuid.Parse(*req.BranchID)
		if err != nil {
			return transport.RequestResponse{}, apperr.BadRequest("invalid branch id")
		}
		params.BranchID = &branchID
	}
	if req.RequestedDate != "" {
		requested, err := time.Parse(dateLayout, req.RequestedDate)
		if err != nil {
			return transport.RequestResponse{}, apperr.BadRequest("invalid requested date")
		}
		params.RequestedDate = &requested
	}

	row, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create request", err)
	}

	s.log.Info("service request created", "request", row.ID, "company", companyID)
	return toResponse(row), nil
}

// UpdateStatus moves a request through the status machine. Illegal
// transitions are rejected with the allowed alternatives.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req transport.UpdateStatusRequest) (transport.RequestResponse, error) {
	next, ok := status.Canonical(req.Status)
	if !ok {
		return transport.RequestResponse{}, apperr.BadRequest(fmt.Sprintf("unknown status %q", req.Status))
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.RequestResponse{}, err
		}
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load request", err)
	}

	current, ok := status.Canonical(row.Status)
	if !ok {
		current = status.Pending
	}
	if !current.CanTransition(next) {
		return transport.RequestResponse{}, apperr.Conflict(
			fmt.Sprintf("cannot move request from %s to %s", current, next))
	}

	var teamID *uuid.UUID
	if req.TeamID != nil {
		parsed, err := uuid.Parse(*req.TeamID)
		if err != nil {
			return transport.RequestResponse{}, apperr.BadRequest("invalid team id")
		}
		teamID = &parsed
	}

	updated, err := s.repo.UpdateStatus(ctx, id, string(next), teamID)
	if err != nil {
		return transport.RequestResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update request", err)
	}

	s.log.Info("service request status changed", "request", id, "from", string(current), "to", string(next))
	return toResponse(updated), nil
}

// Stats tallies requests per canonical status, zero-seeding every bucket.
func (s *Service) Stats(ctx context.Context) (transport.StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return transport.StatsResponse{}, apperr.Wrap(apperr.KindInternal, "failed to tally requests", err)
	}

	var stats transport.StatsResponse
	for raw, count := range counts {
		canon, ok := status.Canonical(raw)
		if !ok {
			canon = status.Pending
		}
		switch canon {
		case status.Pending:
			stats.Pending += count
		case status.Scheduled:
			stats.Scheduled += count
		case status.InProgress:
			stats.InProgress += count
		case status.Completed:
			stats.Completed += count
		case status.Cancelled:
			stats.Cancelled += count
		}
		stats.Total += count
	}
	return stats, nil
}

// resolveStatusFilter normalizes the listing status parameter. Sentinels and
// empty mean no filter; unknown values are rejected up front.
func resolveStatusFilter(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "all") || strings.EqualFold(trimmed, "todos") {
		return "", nil
	}
	canon, ok := status.Canonical(trimmed)
	if !ok {
		return "", apperr.BadRequest(fmt.Sprintf("unknown status %q", raw))
	}
	return string(canon), nil
}

func toResponse(row repository.Request) transport.RequestResponse {
	canon, ok := status.Canonical(row.Status)
	if !ok {
		canon = status.Pending
	}

	resp := transport.RequestResponse{
		ID:           fmt.Sprintf("REQ-%06d", row.ID),
		CompanyID:    row.CompanyID.String(),
		ClientName:   stringOr(row.CompanyName, fallbackClientName),
		ClientArea:   stringOr(row.BranchArea, fallbackClientArea),
		ServiceType:  stringOr(row.ServiceName, fallbackServiceName),
		TeamName:     stringOr(row.TeamName, fallbackTeamName),
		Status:       string(canon),
		StatusLabel:  canon.Label(),
		Description:  row.Description,
		ContactPhone: row.ContactPhone,
		CreatedAt:    row.CreatedAt.Format(dateLayout),
	}
	if row.RequestedDate != nil {
		resp.RequestedDate = row.RequestedDate.Format(dateLayout)
	}
	return resp
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
