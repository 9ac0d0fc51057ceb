package repository

import (
	"context"
	"errors"
	"fmt"

	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const photoNotFoundMessage = "photo not found"

// photoRowColumns is the flat join every read uses. LEFT JOINs keep photos
// whose scheduled service (or any nested relation) is missing.
const photoRowColumns = `
	SELECT
		p.photo_id, p.scheduled_service_id, p.photo_type, p.photo_url,
		p.note, p.review_status, p.review_notes, p.reviewed_at, p.created_at,
		c.name, b.area, b.district, sc.name, s.notes,
		p.collaborator_id, u.full_name, rv.full_name
	FROM service_order_photos p
	LEFT JOIN scheduled_services s ON s.service_id = p.scheduled_service_id
	LEFT JOIN companies c ON c.company_id = s.company_id
	LEFT JOIN client_branches b ON b.branch_id = s.branch_id
	LEFT JOIN service_catalog sc ON sc.catalog_id = s.catalog_id
	LEFT JOIN users u ON u.user_id = p.collaborator_id
	LEFT JOIN users rv ON rv.user_id = p.reviewed_by`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new photo review repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListRows returns photo rows newest-first, optionally restricted to a set
// of canonical review statuses.
func (r *Repo) ListRows(ctx context.Context, review []status.ReviewStatus) ([]PhotoRow, error) {
	query := photoRowColumns
	args := []interface{}{}

	if len(review) > 0 {
		keys := make([]string, len(review))
		for i, s := range review {
			keys[i] = string(s)
		}
		query += ` WHERE p.review_status = ANY($1)`
		args = append(args, keys)
	}

	query += ` ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list photo rows: %w", err)
	}
	defer rows.Close()

	return scanPhotoRows(rows)
}

// ListRowsByService returns the rows of one scheduled service, newest-first.
func (r *Repo) ListRowsByService(ctx context.Context, serviceID int64) ([]PhotoRow, error) {
	query := photoRowColumns + ` WHERE p.scheduled_service_id = $1 ORDER BY p.created_at DESC`

	rows, err := r.pool.Query(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list photo rows by service: %w", err)
	}
	defer rows.Close()

	return scanPhotoRows(rows)
}

// GetRow returns a single photo row by photo id.
func (r *Repo) GetRow(ctx context.Context, photoID int64) (PhotoRow, error) {
	query := photoRowColumns + ` WHERE p.photo_id = $1`

	row, err := scanPhotoRow(r.pool.QueryRow(ctx, query, photoID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PhotoRow{}, apperr.NotFound(photoNotFoundMessage)
		}
		return PhotoRow{}, fmt.Errorf("get photo row: %w", err)
	}

	return row, nil
}

// ServiceContact resolves the company contact for a scheduled service.
func (r *Repo) ServiceContact(ctx context.Context, serviceID int64) (CompanyContact, error) {
	query := `
		SELECT c.name, c.contact_email
		FROM scheduled_services s
		JOIN companies c ON c.company_id = s.company_id
		WHERE s.service_id = $1`

	var contact CompanyContact
	err := r.pool.QueryRow(ctx, query, serviceID).Scan(&contact.CompanyName, &contact.ContactEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CompanyContact{}, apperr.NotFound("service has no company contact")
		}
		return CompanyContact{}, fmt.Errorf("service contact: %w", err)
	}

	return contact, nil
}

// Stats returns archive-wide photo counts. Records are grouped the way the
// history listing groups them: one per scheduled service, orphans excluded
// from the record count but included in the photo total.
func (r *Repo) Stats(ctx context.Context) (HistoryStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT p.scheduled_service_id),
			COUNT(*),
			COUNT(DISTINCT s.company_id)
		FROM service_order_photos p
		LEFT JOIN scheduled_services s ON s.service_id = p.scheduled_service_id`

	var stats HistoryStats
	err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalRecords, &stats.TotalPhotos, &stats.UniqueClients)
	if err != nil {
		return HistoryStats{}, fmt.Errorf("photo history stats: %w", err)
	}

	return stats, nil
}

// MarkServiceSent flags every photo of a service as sent and appends a review
// log entry, atomically.
func (r *Repo) MarkServiceSent(ctx context.Context, serviceID int64, notes *string, reviewerID uuid.UUID) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("begin send review: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE service_order_photos
		SET review_status = $1, review_notes = $2, reviewed_by = $3, reviewed_at = now()
		WHERE scheduled_service_id = $4`,
		string(status.ReviewSent), notes, reviewerID, serviceID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark service photos sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, nil
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO photo_review_log (scheduled_service_id, reviewed_by, notes)
		VALUES ($1, $2, $3)`,
		serviceID, reviewerID, notes,
	)
	if err != nil {
		return 0, fmt.Errorf("append review log: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit send review: %w", err)
	}

	return tag.RowsAffected(), nil
}

// MarkPhotoSent is the orphan variant: flags one photo by its own id.
func (r *Repo) MarkPhotoSent(ctx context.Context, photoID int64, notes *string, reviewerID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE service_order_photos
		SET review_status = $1, review_notes = $2, reviewed_by = $3, reviewed_at = now()
		WHERE photo_id = $4`,
		string(status.ReviewSent), notes, reviewerID, photoID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark photo sent: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Insert records an uploaded photo and returns its id.
func (r *Repo) Insert(ctx context.Context, params InsertParams) (int64, error) {
	query := `
		INSERT INTO service_order_photos
			(scheduled_service_id, photo_type, photo_url, note, collaborator_id, review_status, taken_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING photo_id`

	var photoID int64
	err := r.pool.QueryRow(ctx, query,
		params.ServiceID, params.PhotoType, params.URL, params.Note,
		params.CollaboratorID, string(status.ReviewPending), params.TakenAt,
	).Scan(&photoID)
	if err != nil {
		return 0, fmt.Errorf("insert photo: %w", err)
	}

	return photoID, nil
}

// DeleteByURL removes the photo row matching the given URL.
func (r *Repo) DeleteByURL(ctx context.Context, photoURL string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_order_photos WHERE photo_url = $1`, photoURL)
	if err != nil {
		return fmt.Errorf("delete photo by url: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound(photoNotFoundMessage)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPhotoRow(row rowScanner) (PhotoRow, error) {
	var p PhotoRow
	err := row.Scan(
		&p.PhotoID, &p.ServiceID, &p.PhotoType, &p.URL,
		&p.Note, &p.ReviewStatus, &p.ReviewNotes, &p.ReviewedAt, &p.CreatedAt,
		&p.CompanyName, &p.BranchArea, &p.BranchDistrict, &p.ServiceName, &p.ServiceNotes,
		&p.CollaboratorID, &p.CollaboratorName, &p.ReviewerName,
	)
	return p, err
}

func scanPhotoRows(rows pgx.Rows) ([]PhotoRow, error) {
	var results []PhotoRow

	for rows.Next() {
		p, err := scanPhotoRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo row: %w", err)
		}
		results = append(results, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photo rows: %w", err)
	}

	return results, nil
}
