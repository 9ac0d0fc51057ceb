package repository

import (
	"context"
	"time"

	"fieldops_backend/internal/shared/status"

	"github.com/google/uuid"
)

// PhotoRow is one flat row from the photo listing join: a service photo plus
// whatever related records resolved. Every relation-derived field is a
// pointer; a nil means the join found nothing and the aggregator applies its
// documented fallback. ServiceID itself may be nil (orphaned photo).
type PhotoRow struct {
	PhotoID          int64
	ServiceID        *int64
	PhotoType        string
	URL              string
	Note             *string
	ReviewStatus     string
	ReviewNotes      *string
	ReviewedAt       *time.Time
	CreatedAt        time.Time
	CompanyName      *string
	BranchArea       *string
	BranchDistrict   *string
	ServiceName      *string
	ServiceNotes     *string
	CollaboratorID   *uuid.UUID
	CollaboratorName *string
	ReviewerName     *string
}

// HistoryStats summarizes the photo archive: how many grouped records and
// raw photos exist, and how many distinct client companies they cover.
type HistoryStats struct {
	TotalRecords  int64
	TotalPhotos   int64
	UniqueClients int64
}

// InsertParams contains parameters for recording an uploaded photo.
type InsertParams struct {
	ServiceID      *int64
	PhotoType      string
	URL            string
	Note           *string
	CollaboratorID uuid.UUID
	TakenAt        time.Time
}

// CompanyContact is the billing/notification contact of the company a
// scheduled service belongs to.
type CompanyContact struct {
	CompanyName  string
	ContactEmail string
}

// PhotoReader provides read access to photo rows.
type PhotoReader interface {
	// ListRows returns photo rows newest-first, optionally restricted to a
	// set of canonical review statuses.
	ListRows(ctx context.Context, review []status.ReviewStatus) ([]PhotoRow, error)
	// ListRowsByService returns the rows of one scheduled service.
	ListRowsByService(ctx context.Context, serviceID int64) ([]PhotoRow, error)
	// GetRow returns a single photo row by photo id.
	GetRow(ctx context.Context, photoID int64) (PhotoRow, error)
	// ServiceContact resolves the company contact for a scheduled service.
	ServiceContact(ctx context.Context, serviceID int64) (CompanyContact, error)
	// Stats returns archive-wide photo counts.
	Stats(ctx context.Context) (HistoryStats, error)
}

// PhotoWriter provides write access to photo rows.
type PhotoWriter interface {
	// MarkServiceSent flags every photo of a service as sent, recording the
	// reviewer and notes, and appends a review log entry in the same
	// transaction. Returns the number of photos updated.
	MarkServiceSent(ctx context.Context, serviceID int64, notes *string, reviewerID uuid.UUID) (int64, error)
	// MarkPhotoSent is the orphan variant: flags one photo by its own id.
	MarkPhotoSent(ctx context.Context, photoID int64, notes *string, reviewerID uuid.UUID) (int64, error)
	// Insert records an uploaded photo and returns its id.
	Insert(ctx context.Context, params InsertParams) (int64, error)
	// DeleteByURL removes the photo row matching the given URL.
	DeleteByURL(ctx context.Context, photoURL string) error
}

// Repository combines all photo review repository operations.
type Repository interface {
	PhotoReader
	PhotoWriter
}
