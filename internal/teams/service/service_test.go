package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"fieldops_backend/internal/teams/repository"
	"fieldops_backend/internal/teams/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	teams map[uuid.UUID]repository.Team
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{teams: make(map[uuid.UUID]repository.Team)}
}

func (f *fakeRepo) List(_ context.Context, managerID uuid.UUID, includeInactive bool) ([]repository.Team, error) {
	var out []repository.Team
	for _, team := range f.teams {
		if !includeInactive && !team.IsActive {
			continue
		}
		if managerID != uuid.Nil && (team.ManagerID == nil || *team.ManagerID != managerID) {
			continue
		}
		out = append(out, team)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return repository.Team{}, apperr.NotFound("team not found")
	}
	return team, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Team, error) {
	team := repository.Team{
		ID:        uuid.New(),
		Name:      params.Name,
		ManagerID: params.ManagerID,
		IsActive:  true,
	}
	for _, memberID := range params.MemberIDs {
		team.Members = append(team.Members, repository.Member{UserID: memberID, FullName: "Member"})
	}
	f.teams[team.ID] = team
	return team, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateParams) (repository.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return repository.Team{}, apperr.NotFound("team not found")
	}
	team.Name = params.Name
	team.ManagerID = params.ManagerID
	team.Members = nil
	for _, memberID := range params.MemberIDs {
		team.Members = append(team.Members, repository.Member{UserID: memberID, FullName: "Member"})
	}
	f.teams[id] = team
	return team, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	team, ok := f.teams[id]
	if !ok {
		return apperr.NotFound("team not found")
	}
	team.IsActive = active
	f.teams[id] = team
	return nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("test"))
}

func TestListScopesByRole(t *testing.T) {
	repo := newFakeRepo()
	managerID := uuid.New()
	mine := repository.Team{ID: uuid.New(), Name: "Equipe Norte", ManagerID: &managerID, IsActive: true}
	other := repository.Team{ID: uuid.New(), Name: "Equipe Sul", IsActive: true}
	inactive := repository.Team{ID: uuid.New(), Name: "Equipe Antiga", IsActive: false}
	repo.teams[mine.ID] = mine
	repo.teams[other.ID] = other
	repo.teams[inactive.ID] = inactive
	svc := newTestService(repo)

	asManager, err := svc.List(context.Background(), httpkit.NewIdentity(managerID, httpkit.RoleManager))
	if err != nil {
		t.Fatalf("manager list: %v", err)
	}
	if asManager.Total != 1 || asManager.Items[0].Name != "Equipe Norte" {
		t.Errorf("manager must only see own teams, got %+v", asManager.Items)
	}

	asAdmin, err := svc.List(context.Background(), httpkit.NewIdentity(uuid.New(), httpkit.RoleAdmin))
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if asAdmin.Total != 3 {
		t.Errorf("admin must see all teams including inactive, got %d", asAdmin.Total)
	}
}

func TestCreateDeduplicatesMembers(t *testing.T) {
	svc := newTestService(newFakeRepo())
	memberID := uuid.New().String()

	created, err := svc.Create(context.Background(), transport.CreateTeamRequest{
		Name:      "Equipe Leste",
		MemberIDs: []string{memberID, memberID},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.MemberCount != 1 {
		t.Errorf("duplicate member ids must collapse, got %d", created.MemberCount)
	}
	if created.ManagerName != fallbackManagerName {
		t.Errorf("manager fallback: got %q", created.ManagerName)
	}
}

func TestCreateRejectsMalformedIDs(t *testing.T) {
	svc := newTestService(newFakeRepo())
	bad := "not-a-uuid"

	_, err := svc.Create(context.Background(), transport.CreateTeamRequest{Name: "X", ManagerID: &bad})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("bad manager id: expected bad request, got %v", err)
	}

	_, err = svc.Create(context.Background(), transport.CreateTeamRequest{Name: "X", MemberIDs: []string{bad}})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("bad member id: expected bad request, got %v", err)
	}
}

func TestUpdateReplacesMembership(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), transport.CreateTeamRequest{
		Name:      "Equipe Oeste",
		MemberIDs: []string{uuid.New().String(), uuid.New().String()},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id, _ := uuid.Parse(created.ID)
	updated, err := svc.Update(context.Background(), id, transport.UpdateTeamRequest{
		Name:      "Equipe Oeste",
		MemberIDs: []string{uuid.New().String()},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.MemberCount != 1 {
		t.Errorf("membership must be replaced, not merged: got %d", updated.MemberCount)
	}
}

func TestDeactivate(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	created, err := svc.Create(context.Background(), transport.CreateTeamRequest{Name: "Equipe Centro"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id, _ := uuid.Parse(created.ID)

	if err := svc.Deactivate(context.Background(), id); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.teams[id].IsActive {
		t.Error("team still active")
	}

	if err := svc.Deactivate(context.Background(), uuid.New()); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
