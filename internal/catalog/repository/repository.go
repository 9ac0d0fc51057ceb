package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fieldops_backend/platform/apperr"
)

const itemNotFoundMessage = "catalog item not found"

const itemColumns = `
	catalog_id, name, category, description, base_price_cents,
	estimated_minutes, is_active, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// List returns catalog items matching the filters, ordered by name.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Item, error) {
	query := `SELECT ` + itemColumns + ` FROM service_catalog WHERE 1=1`
	args := []interface{}{}

	if filters.OnlyActive {
		query += ` AND is_active = true`
	}
	if filters.Category != "" {
		args = append(args, filters.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		query += fmt.Sprintf(` AND LOWER(name) LIKE $%d`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetByID returns one catalog item.
func (r *Repo) GetByID(ctx context.Context, id int64) (Item, error) {
	query := `SELECT ` + itemColumns + ` FROM service_catalog WHERE catalog_id = $1`

	item, err := scanItem(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound(itemNotFoundMessage)
	}
	return item, err
}

// Create inserts a catalog item and returns it.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Item, error) {
	query := `
		INSERT INTO service_catalog (name, category, description, base_price_cents, estimated_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		params.Name, params.Category, params.Description,
		params.BasePriceCents, params.EstimatedMinutes))
	if err != nil {
		return Item{}, fmt.Errorf("failed to create catalog item: %w", err)
	}
	return item, nil
}

// Update replaces a catalog item's editable fields.
func (r *Repo) Update(ctx context.Context, id int64, params UpdateParams) (Item, error) {
	query := `
		UPDATE service_catalog
		SET name = $2, category = $3, description = $4,
		    base_price_cents = $5, estimated_minutes = $6, updated_at = NOW()
		WHERE catalog_id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query,
		id, params.Name, params.Category, params.Description,
		params.BasePriceCents, params.EstimatedMinutes))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound(itemNotFoundMessage)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to update catalog item: %w", err)
	}
	return item, nil
}

// SetActive toggles a catalog item's active flag.
func (r *Repo) SetActive(ctx context.Context, id int64, active bool) (Item, error) {
	query := `
		UPDATE service_catalog
		SET is_active = $2, updated_at = NOW()
		WHERE catalog_id = $1
		RETURNING ` + itemColumns

	item, err := scanItem(r.pool.QueryRow(ctx, query, id, active))
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound(itemNotFoundMessage)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to toggle catalog item: %w", err)
	}
	return item, nil
}

// Delete removes a catalog item.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_catalog WHERE catalog_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(itemNotFoundMessage)
	}
	return nil
}

// NameExists reports whether another item already uses the name.
func (r *Repo) NameExists(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM service_catalog
			WHERE LOWER(name) = LOWER($1) AND catalog_id <> $2
		)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, name, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check catalog name: %w", err)
	}
	return exists, nil
}

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Description,
		&item.BasePriceCents,
		&item.EstimatedMinutes,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
