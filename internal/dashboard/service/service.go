package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fieldops_backend/internal/dashboard/repository"
	"fieldops_backend/internal/dashboard/transport"
	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/cache"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
)

const (
	activeRequestsLimit = 10
	statsCacheKey       = "dashboard:manager:stats"
)

// Fallbacks for unresolved join fields in the active-work list.
const (
	fallbackClientName  = "N/A"
	fallbackTeamName    = "Unassigned"
	fallbackServiceName = "Ad-hoc service"
)

// Service assembles role-specific dashboard payloads. Each role has its own
// pipeline set; a failing sub-query degrades its section and is logged, it
// never fails the whole dashboard.
type Service struct {
	repo     repository.Repository
	cache    *cache.Cache
	statsTTL time.Duration
	log      *logger.Logger
}

// New creates a new dashboard service. cache may be nil; the stats tally is
// then computed on every request.
func New(repo repository.Repository, c *cache.Cache, statsTTL time.Duration, log *logger.Logger) *Service {
	return &Service{repo: repo, cache: c, statsTTL: statsTTL, log: log}
}

// ForRole builds the dashboard payload for the requester's role. Unknown
// roles are rejected before any query runs.
func (s *Service) ForRole(ctx context.Context, identity httpkit.Identity) (interface{}, error) {
	switch identity.Role() {
	case httpkit.RoleAdmin:
		return s.adminDashboard(ctx), nil
	case httpkit.RoleManager:
		return s.managerDashboard(ctx), nil
	case httpkit.RoleCollaborator:
		return s.collaboratorDashboard(ctx, identity), nil
	case httpkit.RoleClient:
		return s.clientDashboard(ctx, identity), nil
	default:
		return nil, apperr.Forbidden(fmt.Sprintf("no dashboard for role %q", identity.Role()))
	}
}

func (s *Service) adminDashboard(ctx context.Context) transport.AdminDashboard {
	out := transport.AdminDashboard{Type: transport.TypeAdmin}

	counts, err := s.repo.AdminCounts(ctx)
	if err != nil {
		s.log.DegradedSection(transport.TypeAdmin, "counts", err)
		return out
	}
	out.ActiveTeams = counts.ActiveTeams
	out.ServiceOrders = counts.ServiceOrders
	out.ActiveCompanies = counts.ActiveCompanies
	return out
}

// managerDashboard runs the three manager pipelines concurrently. Each
// section degrades independently: the zero value renders and the failure is
// logged with its section name.
func (s *Service) managerDashboard(ctx context.Context) transport.ManagerDashboard {
	var (
		stats    section[transport.RequestStats]
		requests section[[]transport.ActiveRequestItem]
		teams    section[[]transport.TeamItem]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(runSection(gctx, &stats, s.requestStats))
	g.Go(runSection(gctx, &requests, s.activeRequests))
	g.Go(runSection(gctx, &teams, s.teamList))
	_ = g.Wait() // sections never propagate errors to the group

	out := transport.ManagerDashboard{
		Type:           transport.TypeManager,
		ActiveRequests: []transport.ActiveRequestItem{},
		Teams:          []transport.TeamItem{},
	}

	if stats.ok() {
		out.Stats = stats.value
	} else {
		s.log.DegradedSection(transport.TypeManager, "stats", stats.err)
	}
	if requests.ok() {
		out.ActiveRequests = requests.value
	} else {
		s.log.DegradedSection(transport.TypeManager, "activeRequests", requests.err)
	}
	if teams.ok() {
		out.Teams = teams.value
	} else {
		s.log.DegradedSection(transport.TypeManager, "teams", teams.err)
	}

	return out
}

// requestStats tallies requests per canonical status, zero-seeding every
// bucket. The result is cached briefly: the manager dashboard polls and the
// tally scans the whole requests table.
func (s *Service) requestStats(ctx context.Context) (transport.RequestStats, error) {
	if s.cache != nil {
		var cached transport.RequestStats
		if err := s.cache.GetJSON(ctx, statsCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	tally, err := s.repo.StatusTally(ctx)
	if err != nil {
		return transport.RequestStats{}, err
	}

	var stats transport.RequestStats
	for _, bucket := range tally {
		canon, ok := status.Canonical(bucket.Status)
		if !ok {
			// Unrecognized legacy values count as still pending.
			canon = status.Pending
		}
		switch canon {
		case status.Pending:
			stats.Pending += bucket.Count
		case status.Scheduled:
			stats.Scheduled += bucket.Count
		case status.InProgress:
			stats.InProgress += bucket.Count
		case status.Completed:
			stats.Completed += bucket.Count
		case status.Cancelled:
			stats.Cancelled += bucket.Count
		}
		stats.Total += bucket.Count
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.statsTTL); err != nil {
			s.log.Warn("failed to cache dashboard stats", "error", err.Error())
		}
	}

	return stats, nil
}

func (s *Service) activeRequests(ctx context.Context) ([]transport.ActiveRequestItem, error) {
	rows, err := s.repo.ActiveRequests(ctx, activeRequestsLimit)
	if err != nil {
		return nil, err
	}

	items := make([]transport.ActiveRequestItem, 0, len(rows))
	for _, row := range rows {
		canon, ok := status.Canonical(row.Status)
		if !ok {
			canon = status.Pending
		}
		items = append(items, transport.ActiveRequestItem{
			ID:          fmt.Sprintf("REQ-%06d", row.RequestID),
			ClientName:  stringOr(row.ClientName, fallbackClientName),
			TeamName:    stringOr(row.TeamName, fallbackTeamName),
			ServiceType: stringOr(row.ServiceName, fallbackServiceName),
			Status:      string(canon),
			StatusLabel: canon.Label(),
		})
	}
	return items, nil
}

func (s *Service) teamList(ctx context.Context) ([]transport.TeamItem, error) {
	teams, err := s.repo.ActiveTeams(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]transport.TeamItem, 0, len(teams))
	for _, team := range teams {
		items = append(items, transport.TeamItem{
			ID:          team.TeamID.String(),
			Name:        team.Name,
			ManagerName: stringOr(team.ManagerName, fallbackTeamName),
			MemberCount: team.MemberCount,
		})
	}
	return items, nil
}

func (s *Service) collaboratorDashboard(ctx context.Context, identity httpkit.Identity) transport.CollaboratorDashboard {
	out := transport.CollaboratorDashboard{Type: transport.TypeCollaborator}

	count, err := s.repo.PendingServiceCount(ctx, identity.UserID())
	if err != nil {
		s.log.DegradedSection(transport.TypeCollaborator, "pendingServices", err)
		return out
	}
	out.PendingServices = count
	return out
}

func (s *Service) clientDashboard(ctx context.Context, identity httpkit.Identity) transport.ClientDashboard {
	out := transport.ClientDashboard{Type: transport.TypeClient}

	companyID, err := s.repo.CompanyIDForUser(ctx, identity.UserID())
	if err != nil {
		s.log.DegradedSection(transport.TypeClient, "company", err)
		return out
	}
	if companyID == uuid.Nil {
		return out
	}
	out.HasCompany = true

	count, err := s.repo.OpenRequestCount(ctx, companyID)
	if err != nil {
		s.log.DegradedSection(transport.TypeClient, "openRequests", err)
		return out
	}
	out.OpenRequests = count
	return out
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
