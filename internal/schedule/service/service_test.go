package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/events"
	"fieldops_backend/internal/schedule/repository"
	"fieldops_backend/internal/schedule/transport"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	services map[int64]repository.ScheduledService
	nextID   int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{services: make(map[int64]repository.ScheduledService), nextID: 1}
}

func (f *fakeRepo) ListByDateRange(_ context.Context, from, to time.Time) ([]repository.ScheduledService, error) {
	var out []repository.ScheduledService
	for _, svc := range f.services {
		if !svc.ScheduledFor.Before(from) && svc.ScheduledFor.Before(to) {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListForCollaborator(_ context.Context, _ uuid.UUID, from, to time.Time) ([]repository.ScheduledService, error) {
	return f.ListByDateRange(context.Background(), from, to)
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (repository.ScheduledService, error) {
	svc, ok := f.services[id]
	if !ok {
		return repository.ScheduledService{}, apperr.NotFound("scheduled service not found")
	}
	return svc, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.ScheduledService, error) {
	svc := repository.ScheduledService{
		ID:           f.nextID,
		RequestID:    params.RequestID,
		CompanyID:    params.CompanyID,
		TeamID:       params.TeamID,
		Status:       "scheduled",
		ScheduledFor: params.ScheduledFor,
	}
	f.services[svc.ID] = svc
	f.nextID++
	return svc, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, status string) (repository.ScheduledService, error) {
	svc, ok := f.services[id]
	if !ok {
		return repository.ScheduledService{}, apperr.NotFound("scheduled service not found")
	}
	svc.Status = status
	f.services[id] = svc
	return svc, nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) published() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]events.Event(nil), b.events...)
}

func newTestService(repo repository.Repository, bus events.Bus) *Service {
	return New(repo, bus, logger.New("test"))
}

func futureDate() (string, string, time.Time) {
	at := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	return at.Format(dateLayout), at.Format(timeLayout), at
}

func TestCreatePublishesServiceScheduled(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	teamID := uuid.New().String()
	date, clock, _ := futureDate()

	created, err := svc.Create(context.Background(), transport.CreateServiceRequest{
		CompanyID:     uuid.New().String(),
		TeamID:        &teamID,
		ScheduledDate: date,
		ScheduledTime: clock,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != "SERV-000001" {
		t.Errorf("display id: got %q", created.ID)
	}
	if created.Status != "scheduled" {
		t.Errorf("new service must start scheduled, got %q", created.Status)
	}

	published := bus.published()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	event, ok := published[0].(events.ServiceScheduled)
	if !ok {
		t.Fatalf("expected ServiceScheduled, got %T", published[0])
	}
	if event.ServiceID != 1 || event.TeamID.String() != teamID {
		t.Errorf("event: %+v", event)
	}
}

func TestCreateWithoutTeamSkipsEvent(t *testing.T) {
	bus := &recordingBus{}
	svc := newTestService(newFakeRepo(), bus)
	date, clock, _ := futureDate()

	_, err := svc.Create(context.Background(), transport.CreateServiceRequest{
		CompanyID:     uuid.New().String(),
		ScheduledDate: date,
		ScheduledTime: clock,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bus.published()) != 0 {
		t.Error("unassigned service must not enqueue a reminder")
	}
}

func TestCreateRejectsPast(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	past := time.Now().Add(-24 * time.Hour)

	_, err := svc.Create(context.Background(), transport.CreateServiceRequest{
		CompanyID:     uuid.New().String(),
		ScheduledDate: past.Format(dateLayout),
		ScheduledTime: past.Format(timeLayout),
	})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Errorf("expected bad request, got %v", err)
	}
}

func TestListByDateRangeValidation(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	tests := []struct {
		name string
		from string
		to   string
	}{
		{"reversed", "10/03/2026", "01/03/2026"},
		{"malformed from", "2026-03-01", "10/03/2026"},
		{"too wide", "01/01/2026", "31/12/2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListByDateRange(context.Background(), transport.ListServicesRequest{From: tt.from, To: tt.to})
			if apperr.GetKind(err) != apperr.KindBadRequest {
				t.Errorf("expected bad request, got %v", err)
			}
		})
	}
}

func TestListByDateRangeInclusiveEnd(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, bus)

	at := time.Date(2026, 9, 10, 16, 30, 0, 0, time.Local)
	repo.services[1] = repository.ScheduledService{ID: 1, Status: "scheduled", ScheduledFor: at}

	result, err := svc.ListByDateRange(context.Background(), transport.ListServicesRequest{
		From: "10/09/2026",
		To:   "10/09/2026",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("a service on the end date must be included, got %d", result.Total)
	}
	if result.Items[0].ScheduledTime != "16:30" {
		t.Errorf("scheduled time: got %q", result.Items[0].ScheduledTime)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	repo := newFakeRepo()
	repo.services[1] = repository.ScheduledService{ID: 1, Status: "scheduled", ScheduledFor: time.Now()}
	svc := newTestService(repo, nil)

	updated, err := svc.UpdateStatus(context.Background(), 1, transport.UpdateStatusRequest{Status: "em-andamento"})
	if err != nil {
		t.Fatalf("legacy alias transition: %v", err)
	}
	if updated.Status != "in_progress" {
		t.Errorf("status: got %q", updated.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), 1, transport.UpdateStatusRequest{Status: "scheduled"})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Errorf("backwards transition: expected conflict, got %v", err)
	}
}
