package repository

import (
	"context"
	"time"
)

// Item is one entry of the cleaning service catalog.
type Item struct {
	ID               int64
	Name             string
	Category         string
	Description      *string
	BasePriceCents   int64
	EstimatedMinutes int32
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ListFilters narrows catalog listings.
type ListFilters struct {
	Category   string
	OnlyActive bool
	Search     string
}

// CreateParams contains parameters for creating a catalog item.
type CreateParams struct {
	Name             string
	Category         string
	Description      *string
	BasePriceCents   int64
	EstimatedMinutes int32
}

// UpdateParams contains parameters for updating a catalog item.
type UpdateParams struct {
	Name             string
	Category         string
	Description      *string
	BasePriceCents   int64
	EstimatedMinutes int32
}

// Repository provides catalog persistence.
type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Item, error)
	GetByID(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, params CreateParams) (Item, error)
	Update(ctx context.Context, id int64, params UpdateParams) (Item, error)
	SetActive(ctx context.Context, id int64, active bool) (Item, error)
	Delete(ctx context.Context, id int64) error
	// NameExists reports whether an item with the name already exists,
	// excluding the given id (0 to exclude nothing).
	NameExists(ctx context.Context, name string, excludeID int64) (bool, error)
}
