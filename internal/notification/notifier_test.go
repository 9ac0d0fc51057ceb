package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fieldops_backend/internal/events"
	"fieldops_backend/internal/notification/repository"
	"fieldops_backend/platform/apperr"
	"fieldops_backend/platform/logger"
)

type fakeRepo struct {
	recipients map[uuid.UUID][]repository.Recipient
	scheduled  map[int64]time.Time
}

func (f *fakeRepo) TeamMemberRecipients(_ context.Context, teamID uuid.UUID) ([]repository.Recipient, error) {
	return f.recipients[teamID], nil
}

func (f *fakeRepo) ServiceScheduledFor(_ context.Context, serviceID int64) (time.Time, error) {
	at, ok := f.scheduled[serviceID]
	if !ok {
		return time.Time{}, apperr.NotFound("scheduled service not found")
	}
	return at, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type sentReview struct {
	to, company, serviceID, notes string
}

type sentReminder struct {
	to, name, serviceID, date string
}

type fakeSender struct {
	reviews   []sentReview
	reminders []sentReminder
	fail      bool
}

func (f *fakeSender) SendPhotoReviewEmail(_ context.Context, toEmail, companyName, serviceID, managerNotes string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.reviews = append(f.reviews, sentReview{toEmail, companyName, serviceID, managerNotes})
	return nil
}

func (f *fakeSender) SendServiceReminderEmail(_ context.Context, toEmail, recipientName, serviceID, scheduledDate string) error {
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.reminders = append(f.reminders, sentReminder{toEmail, recipientName, serviceID, scheduledDate})
	return nil
}

func newTestNotifier(repo repository.Repository, sender *fakeSender) (*Notifier, events.Bus) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)

	n := NewNotifier(repo, nil, log)
	if sender != nil {
		n = NewNotifier(repo, sender, log)
	}
	n.Register(bus)
	return n, bus
}

func TestPhotoReviewSentEmailsCompanyContact(t *testing.T) {
	sender := &fakeSender{}
	_, bus := newTestNotifier(&fakeRepo{}, sender)

	err := bus.PublishSync(context.Background(), events.PhotoReviewSent{
		BaseEvent:    events.NewBaseEvent(),
		ServiceID:    42,
		ReviewerID:   uuid.New(),
		CompanyName:  "Acme Facilities",
		ContactEmail: "ops@acme.example",
		ManagerNotes: "before/after attached",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(sender.reviews) != 1 {
		t.Fatalf("reviews sent = %d, want 1", len(sender.reviews))
	}
	got := sender.reviews[0]
	if got.to != "ops@acme.example" || got.company != "Acme Facilities" {
		t.Errorf("unexpected recipient: %+v", got)
	}
	if got.serviceID != "SERV-000042" {
		t.Errorf("serviceID = %q, want SERV-000042", got.serviceID)
	}
	if got.notes != "before/after attached" {
		t.Errorf("notes = %q", got.notes)
	}
}

func TestPhotoReviewSentWithoutContactIsDropped(t *testing.T) {
	sender := &fakeSender{}
	_, bus := newTestNotifier(&fakeRepo{}, sender)

	err := bus.PublishSync(context.Background(), events.PhotoReviewSent{
		BaseEvent:   events.NewBaseEvent(),
		ServiceID:   7,
		CompanyName: "Acme Facilities",
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}
	if len(sender.reviews) != 0 {
		t.Fatalf("reviews sent = %d, want 0", len(sender.reviews))
	}
}

func TestPhotoReviewSentWithSenderDisabled(t *testing.T) {
	_, bus := newTestNotifier(&fakeRepo{}, nil)

	err := bus.PublishSync(context.Background(), events.PhotoReviewSent{
		BaseEvent:    events.NewBaseEvent(),
		ServiceID:    7,
		ContactEmail: "ops@acme.example",
	})
	if err != nil {
		t.Fatalf("disabled sender must not error: %v", err)
	}
}

func TestPhotoReviewSendFailureSurfacesToBus(t *testing.T) {
	sender := &fakeSender{fail: true}
	_, bus := newTestNotifier(&fakeRepo{}, sender)

	err := bus.PublishSync(context.Background(), events.PhotoReviewSent{
		BaseEvent:    events.NewBaseEvent(),
		ServiceID:    7,
		ContactEmail: "ops@acme.example",
	})
	if err == nil {
		t.Fatal("expected handler error")
	}
}

func TestServiceReminderEmailsEachTeamMember(t *testing.T) {
	teamID := uuid.New()
	repo := &fakeRepo{
		recipients: map[uuid.UUID][]repository.Recipient{
			teamID: {
				{Email: "ana@fieldops.example", FullName: "Ana Souza"},
				{Email: "bruno@fieldops.example", FullName: "Bruno Lima"},
			},
		},
		scheduled: map[int64]time.Time{
			10: time.Date(2026, 1, 5, 9, 15, 0, 0, time.UTC),
		},
	}
	sender := &fakeSender{}
	_, bus := newTestNotifier(repo, sender)

	err := bus.PublishSync(context.Background(), events.ServiceReminderDue{
		BaseEvent: events.NewBaseEvent(),
		ServiceID: 10,
		TeamID:    teamID,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(sender.reminders) != 2 {
		t.Fatalf("reminders sent = %d, want 2", len(sender.reminders))
	}
	first := sender.reminders[0]
	if first.serviceID != "SERV-000010" {
		t.Errorf("serviceID = %q, want SERV-000010", first.serviceID)
	}
	if first.date != "05/01/2026 09:15" {
		t.Errorf("date = %q, want 05/01/2026 09:15", first.date)
	}
}

func TestServiceReminderUnknownServiceErrors(t *testing.T) {
	sender := &fakeSender{}
	_, bus := newTestNotifier(&fakeRepo{}, sender)

	err := bus.PublishSync(context.Background(), events.ServiceReminderDue{
		BaseEvent: events.NewBaseEvent(),
		ServiceID: 999,
		TeamID:    uuid.New(),
	})
	if err == nil {
		t.Fatal("expected handler error for unknown service")
	}
	if len(sender.reminders) != 0 {
		t.Fatalf("reminders sent = %d, want 0", len(sender.reminders))
	}
}

func TestServiceReminderNoRecipients(t *testing.T) {
	teamID := uuid.New()
	repo := &fakeRepo{
		scheduled: map[int64]time.Time{10: time.Now()},
	}
	sender := &fakeSender{}
	_, bus := newTestNotifier(repo, sender)

	err := bus.PublishSync(context.Background(), events.ServiceReminderDue{
		BaseEvent: events.NewBaseEvent(),
		ServiceID: 10,
		TeamID:    teamID,
	})
	if err != nil {
		t.Fatalf("empty team must not error: %v", err)
	}
	if len(sender.reminders) != 0 {
		t.Fatalf("reminders sent = %d, want 0", len(sender.reminders))
	}
}
