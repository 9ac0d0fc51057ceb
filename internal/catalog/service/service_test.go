package service

import (
	"context"
	"strings"
	"testing"

	"fieldops_backend/internal/catalog/repository"
	"fieldops_backend/internal/catalog/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	items  map[int64]repository.Item
	nextID int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[int64]repository.Item), nextID: 1}
}

func (f *fakeRepo) List(_ context.Context, filters repository.ListFilters) ([]repository.Item, error) {
	var out []repository.Item
	for _, item := range f.items {
		if filters.OnlyActive && !item.IsActive {
			continue
		}
		if filters.Category != "" && item.Category != filters.Category {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return repository.Item{}, apperr.NotFound("catalog item not found")
	}
	return item, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Item, error) {
	item := repository.Item{
		ID:               f.nextID,
		Name:             params.Name,
		Category:         params.Category,
		Description:      params.Description,
		BasePriceCents:   params.BasePriceCents,
		EstimatedMinutes: params.EstimatedMinutes,
		IsActive:         true,
	}
	f.items[item.ID] = item
	f.nextID++
	return item, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, params repository.UpdateParams) (repository.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return repository.Item{}, apperr.NotFound("catalog item not found")
	}
	item.Name = params.Name
	item.Category = params.Category
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) SetActive(_ context.Context, id int64, active bool) (repository.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return repository.Item{}, apperr.NotFound("catalog item not found")
	}
	item.IsActive = active
	f.items[id] = item
	return item, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("catalog item not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) NameExists(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, item := range f.items {
		if strings.EqualFold(item.Name, name) && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("test"))
}

func createReq(name string) transport.CreateItemRequest {
	return transport.CreateItemRequest{
		Name:             name,
		Category:         "deep-clean",
		BasePriceCents:   45000,
		EstimatedMinutes: 180,
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc := newTestService(newFakeRepo())

	if _, err := svc.Create(context.Background(), createReq("Limpeza pós-obra")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.Create(context.Background(), createReq("limpeza pós-obra"))
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("expected conflict for case-insensitive duplicate, got %v", err)
	}
}

func TestUpdateAllowsKeepingOwnName(t *testing.T) {
	svc := newTestService(newFakeRepo())

	created, err := svc.Create(context.Background(), createReq("Jardinagem"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, transport.UpdateItemRequest{
		Name:             "Jardinagem",
		Category:         "outdoor",
		BasePriceCents:   50000,
		EstimatedMinutes: 120,
	})
	if err != nil {
		t.Errorf("renaming to own name must not conflict: %v", err)
	}
}

func TestToggleActiveHidesFromActiveList(t *testing.T) {
	svc := newTestService(newFakeRepo())

	created, err := svc.Create(context.Background(), createReq("Limpeza de vidros"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	toggled, err := svc.ToggleActive(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if toggled.IsActive {
		t.Error("expected item deactivated")
	}

	active, err := svc.ListActive(context.Background(), transport.ListItemsRequest{})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if active.Total != 0 {
		t.Errorf("deactivated item still listed: %+v", active.Items)
	}

	all, err := svc.List(context.Background(), transport.ListItemsRequest{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if all.Total != 1 {
		t.Errorf("admin list must include inactive items, got %d", all.Total)
	}
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.Delete(context.Background(), 404)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}
