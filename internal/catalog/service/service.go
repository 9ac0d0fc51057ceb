package service

import (
	"context"
	"strings"

	"fieldops_backend/internal/catalog/repository"
	"fieldops_backend/internal/catalog/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

// Service provides catalog business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns all catalog items matching the filters, inactive included.
func (s *Service) List(ctx context.Context, req transport.ListItemsRequest) (transport.ItemListResponse, error) {
	return s.list(ctx, req, false)
}

// ListActive returns only active catalog items.
func (s *Service) ListActive(ctx context.Context, req transport.ListItemsRequest) (transport.ItemListResponse, error) {
	return s.list(ctx, req, true)
}

func (s *Service) list(ctx context.Context, req transport.ListItemsRequest, onlyActive bool) (transport.ItemListResponse, error) {
	items, err := s.repo.List(ctx, repository.ListFilters{
		Category:   strings.TrimSpace(req.Category),
		Search:     strings.TrimSpace(req.Search),
		OnlyActive: onlyActive,
	})
	if err != nil {
		return transport.ItemListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to list catalog", err)
	}

	out := make([]transport.ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toResponse(item))
	}
	return transport.ItemListResponse{Items: out, Total: len(out)}, nil
}

// GetByID returns one catalog item.
func (s *Service) GetByID(ctx context.Context, id int64) (transport.ItemResponse, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ItemResponse{}, err
		}
		return transport.ItemResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load catalog item", err)
	}
	return toResponse(item), nil
}

// Create adds a catalog item. Names are unique case-insensitively.
func (s *Service) Create(ctx context.Context, req transport.CreateItemRequest) (transport.ItemResponse, error) {
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return transport.ItemResponse{}, err
	}

	item, err := s.repo.Create(ctx, repository.CreateParams{
		Name:             strings.TrimSpace(req.Name),
		Category:         strings.TrimSpace(req.Category),
		Description:      req.Description,
		BasePriceCents:   req.BasePriceCents,
		EstimatedMinutes: req.EstimatedMinutes,
	})
	if err != nil {
		return transport.ItemResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create catalog item", err)
	}

	s.log.Info("catalog item created", "id", item.ID, "name", item.Name)
	return toResponse(item), nil
}

// Update edits a catalog item.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdateItemRequest) (transport.ItemResponse, error) {
	if err := s.checkName(ctx, req.Name, id); err != nil {
		return transport.ItemResponse{}, err
	}

	item, err := s.repo.Update(ctx, id, repository.UpdateParams{
		Name:             strings.TrimSpace(req.Name),
		Category:         strings.TrimSpace(req.Category),
		Description:      req.Description,
		BasePriceCents:   req.BasePriceCents,
		EstimatedMinutes: req.EstimatedMinutes,
	})
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ItemResponse{}, err
		}
		return transport.ItemResponse{}, apperr.Wrap(apperr.KindInternal, "failed to update catalog item", err)
	}
	return toResponse(item), nil
}

// ToggleActive flips a catalog item's active flag.
func (s *Service) ToggleActive(ctx context.Context, id int64) (transport.ItemResponse, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.ItemResponse{}, err
		}
		return transport.ItemResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load catalog item", err)
	}

	updated, err := s.repo.SetActive(ctx, id, !item.IsActive)
	if err != nil {
		return transport.ItemResponse{}, apperr.Wrap(apperr.KindInternal, "failed to toggle catalog item", err)
	}
	return toResponse(updated), nil
}

// Delete removes a catalog item.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete catalog item", err)
	}
	s.log.Info("catalog item deleted", "id", id)
	return nil
}

func (s *Service) checkName(ctx context.Context, name string, excludeID int64) error {
	exists, err := s.repo.NameExists(ctx, strings.TrimSpace(name), excludeID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to check catalog name", err)
	}
	if exists {
		return apperr.Conflict("a catalog item with this name already exists")
	}
	return nil
}

func toResponse(item repository.Item) transport.ItemResponse {
	return transport.ItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Category:         item.Category,
		Description:      item.Description,
		BasePriceCents:   item.BasePriceCents,
		EstimatedMinutes: item.EstimatedMinutes,
		IsActive:         item.IsActive,
	}
}
