package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"fieldops_backend/internal/teams/repository"
	"fieldops_backend/internal/teams/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
)

const fallbackManagerName = "Unassigned"

// Service provides team business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new teams service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns teams visible to the requester: managers see their own
// teams, admins see everything including inactive teams.
func (s *Service) List(ctx context.Context, identity httpkit.Identity) (transport.TeamListResponse, error) {
	managerID := uuid.Nil
	includeInactive := false
	if identity.Role() == httpkit.RoleAdmin {
		includeInactive = true
	} else {
		managerID = identity.UserID()
	}

	teams, err := s.repo.List(ctx, managerID, includeInactive)
	if err != nil {
		return transport.TeamListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list teams", err)
	}

	items := make([]transport.TeamResponse, 0, len(teams))
	for _, team := range teams {
		items = append(items, toResponse(team))
	}
	return transport.TeamListResponse{Items: items, Total: len(items)}, nil
}

// GetByID returns one team with its members.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.TeamResponse, error) {
	team, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.TeamResponse{}, err
		}
		return transport.TeamResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load team", err)
	}
	return toResponse(team), nil
}

// Create adds a team with its initial membership.
func (s *Service) Create(ctx context.Context, req transport.CreateTeamRequest) (transport.TeamResponse, error) {
	params := repository.CreateParams{Name: strings.TrimSpace(req.Name)}

	managerID, memberIDs, err := parseIDs(req.ManagerID, req.MemberIDs)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	params.ManagerID = managerID
	params.MemberIDs = memberIDs

	team, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.TeamResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create team", err)
	}

	s.log.Info("team created", "team", team.ID, "name", team.Name, "members", len(team.Members))
	return toResponse(team), nil
}

// Update edits a team, replacing its full membership.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTeamRequest) (transport.TeamResponse, error) {
	params := repository.UpdateParams{Name: strings.TrimSpace(req.Name)}

	managerID, memberIDs, err := parseIDs(req.ManagerID, req.MemberIDs)
	if err != nil {
		return transport.TeamResponse{}, err
	}
	params.ManagerID = managerID
	params.MemberIDs = memberIDs

	team, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.TeamResponse{}, err
		}
		return transport.TeamResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update team", err)
	}
	return toResponse(team), nil
}

// Deactivate marks a team inactive; it stays referenced by history.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return apperr.Wrap(apperr.KindInternal, "failed to deactivate team", err)
	}
	s.log.Info("team deactivated", "team", id)
	return nil
}

func parseIDs(rawManager *string, rawMembers []string) (*uuid.UUID, []uuid.UUID, error) {
	var managerID *uuid.UUID
	if rawManager != nil {
		parsed, err := uuid.Parse(*rawManager)
		if err != nil {
			return nil, nil, apperr.BadRequest("invalid manager id")
		}
		managerID = &parsed
	}

	seen := make(map[uuid.UUID]bool, len(rawMembers))
	memberIDs := make([]uuid.UUID, 0, len(rawMembers))
	for _, raw := range rawMembers {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, nil, apperr.BadRequest("invalid member id")
		}
		if seen[parsed] {
			continue
		}
		seen[parsed] = true
		memberIDs = append(memberIDs, parsed)
	}
	return managerID, memberIDs, nil
}

func toResponse(team repository.Team) transport.TeamResponse {
	members := make([]transport.MemberResponse, 0, len(team.Members))
	for _, member := range team.Members {
		members = append(members, transport.MemberResponse{
			ID:       member.UserID.String(),
			FullName: member.FullName,
		})
	}

	resp := transport.TeamResponse{
		ID:          team.ID.String(),
		Name:        team.Name,
		ManagerName: fallbackManagerName,
		IsActive:    team.IsActive,
		MemberCount: len(members),
		Members:     members,
	}
	if team.ManagerID != nil {
		managerID := team.ManagerID.String()
		resp.ManagerID = &managerID
	}
	if team.ManagerName != nil && *team.ManagerName != "" {
		resp.ManagerName = *team.ManagerName
	}
	return resp
}
