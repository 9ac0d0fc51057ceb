package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/requests/repository"
	"fieldops_backend/internal/requests/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	requests  map[int64]repository.Request
	nextID    int64
	companies map[uuid.UUID]uuid.UUID // userID -> companyID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests:  make(map[int64]repository.Request),
		nextID:    1,
		companies: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeRepo) List(_ context.Context, filters repository.ListFilters) ([]repository.Request, int64, error) {
	var out []repository.Request
	for _, req := range f.requests {
		if filters.Status != "" && req.Status != filters.Status {
			continue
		}
		if filters.CompanyID != uuid.Nil && req.CompanyID != filters.CompanyID {
			continue
		}
		out = append(out, req)
	}
	total := int64(len(out))
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return repository.Request{}, apperr.NotFound("service request not found")
	}
	return req, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Request, error) {
	req := repository.Request{
		ID:           f.nextID,
		CompanyID:    params.CompanyID,
		Status:       "pending",
		ContactPhone: params.ContactPhone,
		CreatedAt:    time.Now(),
	}
	f.requests[req.ID] = req
	f.nextID++
	return req, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status string, teamID *uuid.UUID) (repository.Request, error) {
	req, ok := f.requests[id]
	if !ok {
		return repository.Request{}, apperr.NotFound("service request not found")
	}
	req.Status = status
	if teamID != nil {
		req.TeamID = teamID
	}
	f.requests[id] = req
	return req, nil
}

func (f *fakeRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, req := range f.requests {
		out[req.Status]++
	}
	return out, nil
}

func (f *fakeRepo) CompanyIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	return f.companies[userID], nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("test"))
}

func seedRequest(repo *fakeRepo, status string) repository.Request {
	req := repository.Request{
		ID:        repo.nextID,
		CompanyID: uuid.New(),
		Status:    status,
		CreatedAt: time.Now(),
	}
	repo.requests[req.ID] = req
	repo.nextID++
	return req
}

func TestListStatusFilter(t *testing.T) {
	repo := newFakeRepo()
	seedRequest(repo, "pending")
	seedRequest(repo, "scheduled")
	svc := newTestService(repo)

	tests := []struct {
		status string
		want   int
	}{
		{"pending", 1},
		{"pendente", 1}, // legacy alias normalizes before the query
		{"scheduled", 1},
		{"all", 2},
		{"todos", 2},
		{"", 2},
	}
	for _, tt := range tests {
		result, err := svc.List(context.Background(), transport.ListRequestsRequest{Status: tt.status})
		if err != nil {
			t.Fatalf("status %q: %v", tt.status, err)
		}
		if len(result.Items) != tt.want {
			t.Errorf("status %q: expected %d items, got %d", tt.status, tt.want, len(result.Items))
		}
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.List(context.Background(), transport.ListRequestsRequest{Status: "bogus"})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("expected bad request, got %v", err)
	}
}

func TestListPaginationDefaults(t *testing.T) {
	svc := newTestService(newFakeRepo())

	result, err := svc.List(context.Background(), transport.ListRequestsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Page != 1 || result.PageSize != defaultPageSize {
		t.Errorf("defaults: got page=%d size=%d", result.Page, result.PageSize)
	}
}

func TestRequestDisplayIDAndFallbacks(t *testing.T) {
	repo := newFakeRepo()
	seeded := seedRequest(repo, "agendado")
	svc := newTestService(repo)

	resp, err := svc.GetByID(context.Background(), seeded.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ID != "REQ-000001" {
		t.Errorf("display id: got %q", resp.ID)
	}
	if resp.Status != "scheduled" {
		t.Errorf("legacy status not normalized: got %q", resp.Status)
	}
	if resp.ClientName != fallbackClientName || resp.TeamName != fallbackTeamName {
		t.Errorf("fallbacks: got %+v", resp)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		wantKind apperr.Kind
	}{
		{"pending to scheduled", "pending", "scheduled", apperr.KindUnknown},
		{"scheduled to in_progress", "scheduled", "in_progress", apperr.KindUnknown},
		{"pending straight to completed", "pending", "completed", apperr.KindConflict},
		{"completed is terminal", "completed", "pending", apperr.KindConflict},
		{"unknown target", "pending", "bogus", apperr.KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			seeded := seedRequest(repo, tt.from)
			svc := newTestService(repo)

			_, err := svc.UpdateStatus(context.Background(), seeded.ID, transport.UpdateStatusRequest{Status: tt.to})
			if apperr.GetKind(err) != tt.wantKind {
				t.Errorf("expected kind %v, got %v", tt.wantKind, err)
			}
		})
	}
}

func TestStatsZeroSeedsAllBuckets(t *testing.T) {
	repo := newFakeRepo()
	seedRequest(repo, "pending")
	seedRequest(repo, "pendente")
	seedRequest(repo, "completed")
	svc := newTestService(repo)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Pending != 2 {
		t.Errorf("legacy alias should merge into pending, got %d", stats.Pending)
	}
	if stats.Completed != 1 || stats.Scheduled != 0 || stats.Total != 3 {
		t.Errorf("stats: %+v", stats)
	}
}

func TestCreateMineRequiresCompany(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	userID := uuid.New()

	_, err := svc.CreateMine(context.Background(), userID, transport.CreateRequestRequest{})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Errorf("user without company: expected forbidden, got %v", err)
	}

	repo.companies[userID] = uuid.New()
	created, err := svc.CreateMine(context.Background(), userID, transport.CreateRequestRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Status != "pending" {
		t.Errorf("new request must start pending, got %q", created.Status)
	}
}

func TestCreateMineNormalizesContactPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	userID := uuid.New()
	repo.companies[userID] = uuid.New()

	raw := "(11) 98765-4321"
	created, err := svc.CreateMine(context.Background(), userID, transport.CreateRequestRequest{ContactPhone: &raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ContactPhone == nil || *created.ContactPhone != "+5511987654321" {
		t.Errorf("contactPhone = %v, want +5511987654321", created.ContactPhone)
	}
}

func TestListMineScopesToCompany(t *testing.T) {
	repo := newFakeRepo()
	mine := seedRequest(repo, "pending")
	seedRequest(repo, "pending")
	userID := uuid.New()
	repo.companies[userID] = mine.CompanyID
	svc := newTestService(repo)

	result, err := svc.ListMine(context.Background(), userID, transport.ListRequestsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("expected only own company's requests, got %d", len(result.Items))
	}

	// No company: empty page, not an error.
	other, err := svc.ListMine(context.Background(), uuid.New(), transport.ListRequestsRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other.Items) != 0 {
		t.Errorf("expected empty listing, got %d", len(other.Items))
	}
}
