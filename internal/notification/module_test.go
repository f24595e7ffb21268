package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/notification/repository"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/logger"
)

type fakeRepo struct {
	created []repository.Notification
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Notification, error) {
	n := repository.Notification{
		ID:           uuid.New(),
		UserID:       params.UserID,
		Title:        params.Title,
		Content:      params.Content,
		ResourceID:   params.ResourceID,
		ResourceType: params.ResourceType,
		Category:     params.Category,
	}
	if n.Category == "" {
		n.Category = repository.CategoryInfo
	}
	r.created = append(r.created, n)
	return n, nil
}

func (r *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Notification, int, error) {
	var matched []repository.Notification
	for _, n := range r.created {
		if n.UserID == params.UserID {
			matched = append(matched, n)
		}
	}
	return matched, len(matched), nil
}

func (r *fakeRepo) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	for i, n := range r.created {
		if n.ID == id && n.UserID == userID {
			r.created[i].IsRead = true
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

func (r *fakeRepo) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	for i, n := range r.created {
		if n.UserID == userID {
			r.created[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i, n := range r.created {
		if n.ID == id && n.UserID == userID {
			r.created = append(r.created[:i], r.created[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("notification not found")
}

var _ repository.Repository = (*fakeRepo)(nil)

type fakeSender struct {
	sent []sentMail
	fail error
}

type sentMail struct {
	to      string
	owner   string
	subject string
	body    string
}

func (s *fakeSender) SendOwnerMail(_ context.Context, toEmail, ownerName, subject, body string) error {
	if s.fail != nil {
		return s.fail
	}
	s.sent = append(s.sent, sentMail{to: toEmail, owner: ownerName, subject: subject, body: body})
	return nil
}

type fakeLeadOwners struct {
	owner uuid.UUID
}

func (f fakeLeadOwners) LeadOwner(context.Context, uuid.UUID) (uuid.UUID, error) {
	return f.owner, nil
}

func newTestModule() (*Module, *fakeRepo, *fakeSender) {
	repo := &fakeRepo{}
	sender := &fakeSender{}
	m := newModule(repo, sender, logger.New("test"))
	return m, repo, sender
}

func TestHandleOwnerMailRequestedSendsAndNotifies(t *testing.T) {
	m, repo, sender := newTestModule()
	userID := uuid.New()
	leadID := uuid.New()

	err := m.Handle(context.Background(), events.OwnerMailRequested{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     leadID,
		UserID:     userID,
		OwnerName:  "Pat Miller",
		OwnerEmail: "owner@example.com",
		Subject:    "About your property taxes",
		Body:       "We can help before the tax sale.",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sender recorded %d mails, want 1", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "owner@example.com" || mail.owner != "Pat Miller" {
		t.Errorf("mail sent to %s (%s), want owner@example.com (Pat Miller)", mail.to, mail.owner)
	}

	if len(repo.created) != 1 {
		t.Fatalf("repo holds %d notifications, want 1", len(repo.created))
	}
	n := repo.created[0]
	if n.UserID != userID {
		t.Errorf("notification user = %s, want %s", n.UserID, userID)
	}
	if n.Category != repository.CategorySuccess {
		t.Errorf("notification category = %s, want %s", n.Category, repository.CategorySuccess)
	}
}

func TestHandleOwnerMailRequestedWithoutEmailWarnsRequester(t *testing.T) {
	m, repo, sender := newTestModule()
	userID := uuid.New()

	err := m.Handle(context.Background(), events.OwnerMailRequested{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		UserID:    userID,
		OwnerName: "Pat Miller",
		Subject:   "About your property taxes",
		Body:      "We can help before the tax sale.",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(sender.sent) != 0 {
		t.Fatalf("sender recorded %d mails for a lead without email, want 0", len(sender.sent))
	}
	if len(repo.created) != 1 || repo.created[0].Category != repository.CategoryWarning {
		t.Fatalf("expected a single warning notification, got %+v", repo.created)
	}
}

func TestHandleLeadScoredNotifiesLeadOwner(t *testing.T) {
	m, repo, _ := newTestModule()
	ownerID := uuid.New()
	m.SetLeadOwnerResolver(fakeLeadOwners{owner: ownerID})

	previous := 40
	err := m.Handle(context.Background(), events.LeadScored{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        uuid.New(),
		PropertyID:    uuid.New(),
		Score:         85,
		PreviousScore: &previous,
		Grade:         "A",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("repo holds %d notifications, want 1", len(repo.created))
	}
	if repo.created[0].UserID != ownerID {
		t.Errorf("notification user = %s, want lead owner %s", repo.created[0].UserID, ownerID)
	}
}

func TestHandleLeadScoredWithoutResolverSkips(t *testing.T) {
	m, repo, _ := newTestModule()

	err := m.Handle(context.Background(), events.LeadScored{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     uuid.New(),
		PropertyID: uuid.New(),
		Score:      60,
		Grade:      "C",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("repo holds %d notifications without a resolver, want 0", len(repo.created))
	}
}

func TestHandleMissionDeclinedOnlyNotifiesSafetyDeclines(t *testing.T) {
	m, repo, _ := newTestModule()
	userID := uuid.New()

	plain := events.MissionDeclined{
		BaseEvent: events.NewBaseEvent(),
		MissionID: uuid.New(),
		LeadID:    uuid.New(),
		UserID:    userID,
	}
	if err := m.Handle(context.Background(), plain); err != nil {
		t.Fatalf("Handle() plain decline error = %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("plain decline created %d notifications, want 0", len(repo.created))
	}

	safety := plain
	safety.MissionID = uuid.New()
	safety.SafetyDecline = true
	safety.Reason = "aggressive dog on site"
	if err := m.Handle(context.Background(), safety); err != nil {
		t.Fatalf("Handle() safety decline error = %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].Category != repository.CategoryWarning {
		t.Fatalf("expected one warning notification for a safety decline, got %+v", repo.created)
	}
}

func TestHandleTokensDebitDenied(t *testing.T) {
	m, repo, _ := newTestModule()
	userID := uuid.New()

	err := m.Handle(context.Background(), events.TokensDebitDenied{
		BaseEvent: events.NewBaseEvent(),
		UserID:    userID,
		Requested: 4,
		Balance:   1,
		Operation: "mail",
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("repo holds %d notifications, want 1", len(repo.created))
	}
	if repo.created[0].UserID != userID || repo.created[0].Category != repository.CategoryWarning {
		t.Fatalf("unexpected notification %+v", repo.created[0])
	}
}
