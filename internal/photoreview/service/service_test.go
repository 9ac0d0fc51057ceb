package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/photoreview/repository"
	"fieldops_backend/internal/photoreview/transport"
	"fieldops_backend/internal/shared/status"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

// fakeRepo is an in-memory Repository for service-level tests.
type fakeRepo struct {
	rows        []repository.PhotoRow
	listErr     error
	sentService []int64
	sentPhoto   []int64
	deletedURLs []string
	lastReview  []status.ReviewStatus
	stats       repository.HistoryStats
	statsErr    error
}

func (f *fakeRepo) ListRows(_ context.Context, review []status.ReviewStatus) ([]repository.PhotoRow, error) {
	f.lastReview = review
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(review) == 0 {
		return f.rows, nil
	}
	var out []repository.PhotoRow
	for _, row := range f.rows {
		canon, ok := status.CanonicalReview(row.ReviewStatus)
		if !ok {
			canon = status.ReviewPending
		}
		for _, want := range review {
			if canon == want {
				out = append(out, row)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) ListRowsByService(_ context.Context, serviceID int64) ([]repository.PhotoRow, error) {
	var out []repository.PhotoRow
	for _, row := range f.rows {
		if row.ServiceID != nil && *row.ServiceID == serviceID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetRow(_ context.Context, photoID int64) (repository.PhotoRow, error) {
	for _, row := range f.rows {
		if row.PhotoID == photoID {
			return row, nil
		}
	}
	return repository.PhotoRow{}, apperr.NotFound("photo not found")
}

func (f *fakeRepo) ServiceContact(_ context.Context, _ int64) (repository.CompanyContact, error) {
	return repository.CompanyContact{CompanyName: "Condomínio Aurora", ContactEmail: "contato@aurora.example"}, nil
}

func (f *fakeRepo) Stats(_ context.Context) (repository.HistoryStats, error) {
	if f.statsErr != nil {
		return repository.HistoryStats{}, f.statsErr
	}
	return f.stats, nil
}

func (f *fakeRepo) MarkServiceSent(_ context.Context, serviceID int64, _ *string, _ uuid.UUID) (int64, error) {
	f.sentService = append(f.sentService, serviceID)
	var n int64
	for _, row := range f.rows {
		if row.ServiceID != nil && *row.ServiceID == serviceID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) MarkPhotoSent(_ context.Context, photoID int64, _ *string, _ uuid.UUID) (int64, error) {
	f.sentPhoto = append(f.sentPhoto, photoID)
	for _, row := range f.rows {
		if row.PhotoID == photoID {
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeRepo) Insert(_ context.Context, _ repository.InsertParams) (int64, error) {
	return 1, nil
}

func (f *fakeRepo) DeleteByURL(_ context.Context, photoURL string) error {
	f.deletedURLs = append(f.deletedURLs, photoURL)
	return nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, nil, "service-photos", "https://cdn.example.com", nil, logger.New("test"))
}

func TestListSubmissionsStatusNarrowsStoreRead(t *testing.T) {
	tests := []struct {
		status string
		want   []status.ReviewStatus
	}{
		{"pending", []status.ReviewStatus{status.ReviewPending}},
		{"sent", []status.ReviewStatus{status.ReviewSent}},
		{"all", nil},
		{"todos", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			repo := &fakeRepo{}
			svc := newTestService(repo)

			_, err := svc.ListSubmissions(context.Background(), transport.ListSubmissionsRequest{Status: tt.status})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(repo.lastReview) != len(tt.want) {
				t.Fatalf("expected %d review statuses, got %d", len(tt.want), len(repo.lastReview))
			}
			for i := range tt.want {
				if repo.lastReview[i] != tt.want[i] {
					t.Errorf("review[%d]: expected %s, got %s", i, tt.want[i], repo.lastReview[i])
				}
			}
		})
	}
}

func TestListSubmissionsAggregatesAndFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{rows: []repository.PhotoRow{
		{
			PhotoID: 1, ServiceID: int64Ptr(10), PhotoType: PhotoTypeBefore,
			URL: "https://cdn.example.com/1.jpg", ReviewStatus: "pending",
			CreatedAt: base, CompanyName: strPtr("Condomínio Aurora"), BranchArea: strPtr("norte"),
		},
		{
			PhotoID: 2, ServiceID: int64Ptr(11), PhotoType: PhotoTypeBefore,
			URL: "https://cdn.example.com/2.jpg", ReviewStatus: "pending",
			CreatedAt: base, CompanyName: strPtr("Shopping Vale Verde"), BranchArea: strPtr("sul"),
		},
	}}
	svc := newTestService(repo)

	result, err := svc.ListSubmissions(context.Background(), transport.ListSubmissionsRequest{Search: "aurora"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].ID != "SUB-000010" {
		t.Errorf("expected SUB-000010, got %s", result.Items[0].ID)
	}
}

func TestListSubmissionsManagerFilter(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{rows: []repository.PhotoRow{
		{
			PhotoID: 1, ServiceID: int64Ptr(10), PhotoType: PhotoTypeBefore,
			URL: "https://cdn.example.com/1.jpg", ReviewStatus: "sent",
			CreatedAt: base, ReviewerName: strPtr("Carla Mendes"),
		},
		{
			PhotoID: 2, ServiceID: int64Ptr(11), PhotoType: PhotoTypeBefore,
			URL: "https://cdn.example.com/2.jpg", ReviewStatus: "pending",
			CreatedAt: base,
		},
	}}
	svc := newTestService(repo)

	result, err := svc.ListSubmissions(context.Background(), transport.ListSubmissionsRequest{Manager: "Carla Mendes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Items[0].ID != "SUB-000010" {
		t.Fatalf("expected only SUB-000010, got %+v", result.Items)
	}
	if result.Items[0].ManagerName != "Carla Mendes" {
		t.Errorf("managerName: got %q", result.Items[0].ManagerName)
	}

	// The sentinel disables the filter, and the unreviewed group carries
	// the fallback name.
	result, err = svc.ListSubmissions(context.Background(), transport.ListSubmissionsRequest{Manager: "all"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 items, got %d", result.Total)
	}
	if result.Items[1].ManagerName != FallbackManager {
		t.Errorf("fallback managerName: got %q", result.Items[1].ManagerName)
	}
}

func TestListHistorySpansReviewStatuses(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{rows: []repository.PhotoRow{
		{
			PhotoID: 1, ServiceID: int64Ptr(10), PhotoType: PhotoTypeBefore,
			URL: "https://cdn.example.com/1.jpg", ReviewStatus: "sent",
			CreatedAt: base, ReviewerName: strPtr("Carla Mendes"),
		},
		{
			PhotoID: 2, ServiceID: int64Ptr(11), PhotoType: PhotoTypeAfter,
			URL: "https://cdn.example.com/2.jpg", ReviewStatus: "pending",
			CreatedAt: base,
		},
	}}
	svc := newTestService(repo)

	result, err := svc.ListHistory(context.Background(), transport.ListHistoryRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected 2 items, got %d", result.Total)
	}
	if repo.lastReview != nil {
		t.Errorf("history must not narrow the store read, got %v", repo.lastReview)
	}

	result, err = svc.ListHistory(context.Background(), transport.ListHistoryRequest{Manager: "Carla Mendes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 || result.Items[0].ID != "SUB-000010" {
		t.Fatalf("expected only SUB-000010, got %+v", result.Items)
	}
}

func TestHistoryStats(t *testing.T) {
	repo := &fakeRepo{stats: repository.HistoryStats{
		TotalRecords:  4,
		TotalPhotos:   17,
		UniqueClients: 3,
	}}
	svc := newTestService(repo)

	got, err := svc.HistoryStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := transport.HistoryStatsResponse{TotalRecords: 4, TotalPhotos: 17, UniqueClients: 3}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestHistoryStatsStoreError(t *testing.T) {
	repo := &fakeRepo{statsErr: errors.New("connection refused")}
	svc := newTestService(repo)

	if _, err := svc.HistoryStats(context.Background()); !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestListSubmissionsStoreError(t *testing.T) {
	repo := &fakeRepo{listErr: errors.New("connection refused")}
	svc := newTestService(repo)

	_, err := svc.ListSubmissions(context.Background(), transport.ListSubmissionsRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Errorf("expected internal kind, got %v", apperr.GetKind(err))
	}
}

func TestGetSubmissionByDisplayID(t *testing.T) {
	base := time.Now()
	repo := &fakeRepo{rows: []repository.PhotoRow{
		{PhotoID: 1, ServiceID: int64Ptr(10), PhotoType: PhotoTypeBefore, URL: "u1", ReviewStatus: "pending", CreatedAt: base},
		{PhotoID: 2, PhotoType: PhotoTypeAfter, URL: "u2", ReviewStatus: "pending", CreatedAt: base},
	}}
	svc := newTestService(repo)

	tests := []struct {
		displayID string
		wantID    string
	}{
		{"SUB-000010", "SUB-000010"},
		{"10", "SUB-000010"}, // bare numeric addresses the service
		{"PHOTO-000002", "PHOTO-000002"},
	}
	for _, tt := range tests {
		sub, err := svc.GetSubmission(context.Background(), tt.displayID)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.displayID, err)
		}
		if sub.ID != tt.wantID {
			t.Errorf("%s: expected %s, got %s", tt.displayID, tt.wantID, sub.ID)
		}
	}
}

func TestGetSubmissionInvalidID(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	for _, id := range []string{"", "SUB-", "SUB-abc", "PHOTO--3", "-5", "0"} {
		_, err := svc.GetSubmission(context.Background(), id)
		if apperr.GetKind(err) != apperr.KindBadRequest {
			t.Errorf("%q: expected bad request, got %v", id, err)
		}
	}
}

func TestGetSubmissionNotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.GetSubmission(context.Background(), "SUB-000404")
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSendToClient(t *testing.T) {
	base := time.Now()
	repo := &fakeRepo{rows: []repository.PhotoRow{
		{PhotoID: 1, ServiceID: int64Ptr(10), PhotoType: PhotoTypeBefore, URL: "u1", ReviewStatus: "pending", CreatedAt: base},
		{PhotoID: 2, PhotoType: PhotoTypeAfter, URL: "u2", ReviewStatus: "pending", CreatedAt: base},
	}}
	svc := newTestService(repo)
	reviewer := uuid.New()

	if err := svc.SendToClient(context.Background(), "SUB-000010", transport.SendToClientRequest{Notes: "ok"}, reviewer); err != nil {
		t.Fatalf("service send: %v", err)
	}
	if len(repo.sentService) != 1 || repo.sentService[0] != 10 {
		t.Errorf("expected service 10 marked sent, got %v", repo.sentService)
	}

	if err := svc.SendToClient(context.Background(), "PHOTO-000002", transport.SendToClientRequest{}, reviewer); err != nil {
		t.Fatalf("orphan send: %v", err)
	}
	if len(repo.sentPhoto) != 1 || repo.sentPhoto[0] != 2 {
		t.Errorf("expected photo 2 marked sent, got %v", repo.sentPhoto)
	}
}

func TestSendToClientNotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	err := svc.SendToClient(context.Background(), "SUB-000404", transport.SendToClientRequest{}, uuid.New())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestUploadPhotoRejectsBadType(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.UploadPhoto(context.Background(), nil, "panorama", "a.jpg", "image/jpeg", []byte{1}, uuid.New())
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("expected bad request, got %v", err)
	}
}

func TestDeletePhoto(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)

	err := svc.DeletePhoto(context.Background(), transport.DeletePhotoRequest{PhotoURL: "https://cdn.example.com/service-photos/10/a.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.deletedURLs) != 1 {
		t.Fatalf("expected 1 deleted row, got %d", len(repo.deletedURLs))
	}
}

func TestObjectKeyFromURL(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	tests := []struct {
		url    string
		key    string
		wantOK bool
	}{
		{"https://cdn.example.com/service-photos/10/a.jpg", "10/a.jpg", true},
		{"https://cdn.example.com/service-photos/", "", false},
		{"https://other.example.com/service-photos/10/a.jpg", "", false},
	}
	for _, tt := range tests {
		key, ok := svc.objectKeyFromURL(tt.url)
		if ok != tt.wantOK || key != tt.key {
			t.Errorf("%s: got (%q, %v), want (%q, %v)", tt.url, key, ok, tt.key, tt.wantOK)
		}
	}
}
