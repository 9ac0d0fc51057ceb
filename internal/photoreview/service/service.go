package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"fieldops_backend/internal/adapters/storage"
	"fieldops_backend/internal/events"
	"fieldops_backend/internal/photoreview/repository"
	"fieldops_backend/internal/photoreview/transport"
	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"

	"github.com/google/uuid"
)

// displayIDKind distinguishes the two display id families a caller can hand
// back to the API.
type displayIDKind int

const (
	idKindService displayIDKind = iota // SUB-000010: a scheduled service's photo set
	idKindOrphan                       // PHOTO-000042: a single orphaned photo
)

// Service provides photo review business logic: listing grouped submissions,
// sending a review to the client, and managing photo files.
type Service struct {
	repo    repository.Repository
	store   storage.StorageService
	bucket  string
	baseURL string
	bus     events.Bus
	log     *logger.Logger
}

// New creates a new photo review service. store may be nil when object
// storage is disabled; uploads then fail with a typed error.
func New(repo repository.Repository, store storage.StorageService, bucket, baseURL string, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		store:   store,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		bus:     bus,
		log:     log,
	}
}

// ListSubmissions returns grouped photo submissions with filters applied.
// The status filter narrows the store read (pending vs sent); search and
// area apply to the aggregated view-models.
func (s *Service) ListSubmissions(ctx context.Context, req transport.ListSubmissionsRequest) (transport.SubmissionListResponse, error) {
	var review []status.ReviewStatus
	switch normalizeCategory(req.Status) {
	case "pending":
		review = []status.ReviewStatus{status.ReviewPending}
	case "sent":
		// "approved" rows normalize to sent at the status layer; the store
		// query matches canonical keys only.
		review = []status.ReviewStatus{status.ReviewSent}
	}

	rows, err := s.repo.ListRows(ctx, review)
	if err != nil {
		return transport.SubmissionListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load photo submissions", err)
	}

	items := ApplyFilters(BuildSubmissions(rows), Filters{
		Search:  req.Search,
		Area:    req.Area,
		Manager: req.Manager,
	})

	return transport.SubmissionListResponse{Items: items, Total: len(items)}, nil
}

// ListHistory returns the full photo archive grouped per service, every
// review status included, with the listing filters applied. The manager
// filter matches the resolved reviewer name, fallback included.
func (s *Service) ListHistory(ctx context.Context, req transport.ListHistoryRequest) (transport.SubmissionListResponse, error) {
	rows, err := s.repo.ListRows(ctx, nil)
	if err != nil {
		return transport.SubmissionListResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load photo history", err)
	}

	items := ApplyFilters(BuildSubmissions(rows), Filters{
		Search:  req.Search,
		Area:    req.Area,
		Manager: req.Manager,
	})

	return transport.SubmissionListResponse{Items: items, Total: len(items)}, nil
}

// HistoryStats returns archive-wide counts for the history dashboard header.
func (s *Service) HistoryStats(ctx context.Context) (transport.HistoryStatsResponse, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return transport.HistoryStatsResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load photo history stats", err)
	}

	return transport.HistoryStatsResponse{
		TotalRecords:  stats.TotalRecords,
		TotalPhotos:   stats.TotalPhotos,
		UniqueClients: stats.UniqueClients,
	}, nil
}

// GetSubmission returns one submission by display id (SUB-… or PHOTO-…).
func (s *Service) GetSubmission(ctx context.Context, displayID string) (transport.Submission, error) {
	kind, id, err := parseDisplayID(displayID)
	if err != nil {
		return transport.Submission{}, err
	}

	var rows []repository.PhotoRow
	switch kind {
	case idKindService:
		rows, err = s.repo.ListRowsByService(ctx, id)
	case idKindOrphan:
		var row repository.PhotoRow
		row, err = s.repo.GetRow(ctx, id)
		rows = []repository.PhotoRow{row}
	}
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.Submission{}, err
		}
		return transport.Submission{}, apperr.Wrap(apperr.KindInternal, "failed to load submission", err)
	}

	subs := BuildSubmissions(rows)
	if len(subs) == 0 {
		return transport.Submission{}, apperr.NotFound("submission not found")
	}

	return subs[0], nil
}

// SendToClient marks every photo of a submission as sent, recording reviewer
// and notes. Saving again after a first send is allowed: managers edit notes
// and resend. Publishes PhotoReviewSent so the client company gets an email.
func (s *Service) SendToClient(ctx context.Context, displayID string, req transport.SendToClientRequest, reviewerID uuid.UUID) error {
	kind, id, err := parseDisplayID(displayID)
	if err != nil {
		return err
	}

	var notes *string
	if trimmed := strings.TrimSpace(req.Notes); trimmed != "" {
		notes = &trimmed
	}

	var updated int64
	switch kind {
	case idKindService:
		updated, err = s.repo.MarkServiceSent(ctx, id, notes, reviewerID)
	case idKindOrphan:
		updated, err = s.repo.MarkPhotoSent(ctx, id, notes, reviewerID)
	}
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "failed to send review", err)
	}
	if updated == 0 {
		return apperr.NotFound("submission not found or has no photos")
	}

	s.log.Info("photo review sent", "submission", displayID, "photos", updated, "reviewer", reviewerID)

	if kind == idKindService && s.bus != nil {
		s.publishSent(ctx, id, reviewerID, notes)
	}

	return nil
}

// publishSent resolves the company contact and emits the domain event.
// A missing contact is logged, not an error: the review itself succeeded.
func (s *Service) publishSent(ctx context.Context, serviceID int64, reviewerID uuid.UUID, notes *string) {
	contact, err := s.repo.ServiceContact(ctx, serviceID)
	if err != nil {
		s.log.Warn("photo review sent without notification", "service", serviceID, "error", err.Error())
		return
	}

	event := events.PhotoReviewSent{
		BaseEvent:    events.NewBaseEvent(),
		ServiceID:    serviceID,
		ReviewerID:   reviewerID,
		CompanyName:  contact.CompanyName,
		ContactEmail: contact.ContactEmail,
	}
	if notes != nil {
		event.ManagerNotes = *notes
	}

	s.bus.Publish(ctx, event)
}

// UploadPhoto stores the file in object storage and records the photo row.
// The capture timestamp comes from EXIF when present.
func (s *Service) UploadPhoto(ctx context.Context, serviceID *int64, photoType, fileName, contentType string, data []byte, collaboratorID uuid.UUID) (transport.UploadPhotoResponse, error) {
	if photoType != PhotoTypeBefore && photoType != PhotoTypeAfter {
		return transport.UploadPhotoResponse{}, apperr.BadRequest("photo type must be before or after")
	}
	if s.store == nil {
		return transport.UploadPhotoResponse{}, apperr.Internal("object storage is not configured")
	}
	if err := s.store.ValidateContentType(contentType); err != nil {
		return transport.UploadPhotoResponse{}, apperr.Wrap(apperr.KindValidation, "unsupported photo content type", err)
	}
	if err := s.store.ValidateFileSize(int64(len(data))); err != nil {
		return transport.UploadPhotoResponse{}, apperr.Wrap(apperr.KindValidation, "photo too large", err)
	}

	folder := "orphaned"
	if serviceID != nil {
		folder = strconv.FormatInt(*serviceID, 10)
	}

	fileKey, err := s.store.UploadBytes(ctx, s.bucket, folder, fileName, contentType, data)
	if err != nil {
		return transport.UploadPhotoResponse{}, apperr.Wrap(apperr.KindInternal, "failed to store photo", err)
	}

	url := s.baseURL + "/" + s.bucket + "/" + fileKey

	photoID, err := s.repo.Insert(ctx, repository.InsertParams{
		ServiceID:      serviceID,
		PhotoType:      photoType,
		URL:            url,
		CollaboratorID: collaboratorID,
		TakenAt:        takenAtFromEXIF(data, time.Now()),
	})
	if err != nil {
		// The object is already stored; remove it so retries do not leak files.
		if delErr := s.store.DeleteObject(ctx, s.bucket, fileKey); delErr != nil {
			s.log.Warn("orphaned storage object after failed insert", "key", fileKey, "error", delErr.Error())
		}
		return transport.UploadPhotoResponse{}, apperr.Wrap(apperr.KindInternal, "failed to record photo", err)
	}

	s.log.Info("photo uploaded", "photo", photoID, "type", photoType, "collaborator", collaboratorID)

	return transport.UploadPhotoResponse{PhotoID: photoID, URL: url}, nil
}

// DeletePhoto removes the photo row and best-effort deletes the stored
// object. Object deletion failure is logged, never surfaced: the row is the
// source of truth.
func (s *Service) DeletePhoto(ctx context.Context, req transport.DeletePhotoRequest) error {
	if err := s.repo.DeleteByURL(ctx, req.PhotoURL); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return err
		}
		return apperr.Wrap(apperr.KindInternal, "failed to delete photo", err)
	}

	if s.store != nil {
		if key, ok := s.objectKeyFromURL(req.PhotoURL); ok {
			if err := s.store.DeleteObject(ctx, s.bucket, key); err != nil {
				s.log.Warn("failed to delete photo object", "key", key, "error", err.Error())
			}
		}
	}

	s.log.Info("photo deleted", "url", req.PhotoURL)
	return nil
}

// objectKeyFromURL extracts the object key from a public photo URL. URLs not
// under this deployment's base/bucket prefix (legacy imports) yield ok=false.
func (s *Service) objectKeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	return key, key != ""
}

// parseDisplayID strips the SUB-/PHOTO- prefix and parses the numeric
// remainder. Malformed ids are rejected before any store access.
func parseDisplayID(displayID string) (displayIDKind, int64, error) {
	trimmed := strings.TrimSpace(displayID)

	kind := idKindService
	var raw string
	switch {
	case strings.HasPrefix(trimmed, "SUB-"):
		raw = strings.TrimPrefix(trimmed, "SUB-")
	case strings.HasPrefix(trimmed, "PHOTO-"):
		kind = idKindOrphan
		raw = strings.TrimPrefix(trimmed, "PHOTO-")
	default:
		// Bare numeric ids address a service's submission directly.
		raw = trimmed
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, 0, apperr.BadRequest("invalid submission id")
	}

	return kind, id, nil
}
