package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/metrixmedia/backend/internal/model"
	"github.com/metrixmedia/backend/internal/notify"
)

// ---------------------------------------------------------------------------
// mockContactRepository — in-memory stub for testing
// ---------------------------------------------------------------------------

type mockContactRepository struct {
	createFunc func(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error)
	listFunc   func(ctx context.Context) ([]*model.ContactSubmission, error)
	created    []model.ContactDraft
}

func (m *mockContactRepository) Ping(ctx context.Context) error { return nil }

func (m *mockContactRepository) Create(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error) {
	m.created = append(m.created, draft)
	if m.createFunc != nil {
		return m.createFunc(ctx, draft)
	}
	return &model.ContactSubmission{
		ID:          "sub-1",
		Name:        draft.Name,
		Email:       draft.Email,
		Message:     draft.Message,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

func (m *mockContactRepository) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// mockNotifier
// ---------------------------------------------------------------------------

type mockNotifier struct {
	sendFunc func(ctx context.Context, msg notify.Message) error
	sent     []notify.Message
}

func (m *mockNotifier) Send(ctx context.Context, msg notify.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

var testContactConfig = ContactConfig{
	ToEmail:       "hello@metrixmedia.com",
	FromEmail:     "noreply@metrixmedia.com",
	NotifyTimeout: time.Second,
}

func validDraft() model.ContactDraft {
	return model.ContactDraft{
		Name:    "Ada",
		Email:   "ada@example.com",
		Company: "Analytical Engines",
		Message: "We'd like a new site.",
	}
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestContactService_Submit_StoresAndNotifies(t *testing.T) {
	repo := &mockContactRepository{}
	notifier := &mockNotifier{}
	svc := NewContactService(repo, notifier, testContactConfig, nil)

	outcome, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Errorf("expected OutcomeAccepted, got %v", outcome)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(repo.created))
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifier.sent))
	}

	msg := notifier.sent[0]
	if msg.To != "hello@metrixmedia.com" || msg.From != "noreply@metrixmedia.com" {
		t.Errorf("unexpected addressing to=%q from=%q", msg.To, msg.From)
	}
	if msg.Subject != "New Contact Form Submission from Ada" {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if msg.ReplyTo != "ada@example.com" {
		t.Errorf("expected reply-to submitter, got %q", msg.ReplyTo)
	}
}

func TestContactService_Submit_SpamIsNotStoredOrSent(t *testing.T) {
	repo := &mockContactRepository{}
	notifier := &mockNotifier{}
	svc := NewContactService(repo, notifier, testContactConfig, nil)

	draft := validDraft()
	draft.Website = "http://spam.example"

	outcome, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeSpam {
		t.Errorf("expected OutcomeSpam, got %v", outcome)
	}
	if len(repo.created) != 0 {
		t.Errorf("expected no Create call, got %d", len(repo.created))
	}
	if len(notifier.sent) != 0 {
		t.Errorf("expected no notification, got %d", len(notifier.sent))
	}
}

func TestContactService_Submit_WhitespaceWebsiteIsNotSpam(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo, &mockNotifier{}, testContactConfig, nil)

	draft := validDraft()
	draft.Website = "   "
	outcome, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Errorf("expected OutcomeAccepted, got %v", outcome)
	}
}

func TestContactService_Submit_StoreErrorWrapsErrPersistence(t *testing.T) {
	notifier := &mockNotifier{}
	repo := &mockContactRepository{
		createFunc: func(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error) {
			return nil, errors.New("db write failed")
		},
	}
	svc := NewContactService(repo, notifier, testContactConfig, nil)

	_, err := svc.Submit(context.Background(), validDraft())
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Error("expected no notification when the store fails")
	}
}

func TestContactService_Submit_NotifierFailureIsAbsorbed(t *testing.T) {
	repo := &mockContactRepository{}
	notifier := &mockNotifier{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			return errors.New("smtp down")
		},
	}
	svc := NewContactService(repo, notifier, testContactConfig, nil)

	outcome, err := svc.Submit(context.Background(), validDraft())
	if err != nil {
		t.Fatalf("expected notifier failure to be absorbed, got %v", err)
	}
	if outcome != OutcomeAccepted {
		t.Errorf("expected OutcomeAccepted, got %v", outcome)
	}
	if len(repo.created) != 1 {
		t.Errorf("expected submission to be stored, got %d", len(repo.created))
	}
}

func TestContactService_Submit_DisabledNotifier(t *testing.T) {
	repo := &mockContactRepository{}
	svc := NewContactService(repo, nil, testContactConfig, nil)

	if _, err := svc.Submit(context.Background(), validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestContactService_Submit_NotifySurvivesRequestCancel(t *testing.T) {
	var sendErr error
	notifier := &mockNotifier{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			sendErr = ctx.Err()
			if _, ok := ctx.Deadline(); !ok {
				t.Error("expected the send context to carry a deadline")
			}
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	repo := &mockContactRepository{
		createFunc: func(c context.Context, d model.ContactDraft) (*model.ContactSubmission, error) {
			cancel()
			return &model.ContactSubmission{ID: "x", Name: d.Name, Email: d.Email, Message: d.Message}, nil
		},
	}
	svc := NewContactService(repo, notifier, testContactConfig, nil)

	if _, err := svc.Submit(ctx, validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sendErr != nil {
		t.Errorf("expected send context to be live, got %v", sendErr)
	}
}

func TestContactService_Submit_NotifyTimeout(t *testing.T) {
	notifier := &mockNotifier{
		sendFunc: func(ctx context.Context, msg notify.Message) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}
	cfg := testContactConfig
	cfg.NotifyTimeout = 20 * time.Millisecond
	svc := NewContactService(&mockContactRepository{}, notifier, cfg, nil)

	start := time.Now()
	if _, err := svc.Submit(context.Background(), validDraft()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("notify timeout was not applied")
	}
}

// ---------------------------------------------------------------------------
// List tests
// ---------------------------------------------------------------------------

func TestContactService_List(t *testing.T) {
	want := []*model.ContactSubmission{{ID: "a"}, {ID: "b"}}
	repo := &mockContactRepository{
		listFunc: func(ctx context.Context) ([]*model.ContactSubmission, error) { return want, nil },
	}
	svc := NewContactService(repo, nil, testContactConfig, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("unexpected list %+v", got)
	}
}

func TestContactService_List_Error(t *testing.T) {
	repo := &mockContactRepository{
		listFunc: func(ctx context.Context) ([]*model.ContactSubmission, error) {
			return nil, errors.New("db error")
		},
	}
	svc := NewContactService(repo, nil, testContactConfig, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, ErrPersistence) {
		t.Errorf("expected ErrPersistence, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Email rendering
// ---------------------------------------------------------------------------

func TestBuildContactEmail_EscapesAndBreaksLines(t *testing.T) {
	sub := &model.ContactSubmission{
		Name:    "Eve",
		Email:   "eve@example.com",
		Message: "line one\n<script>alert(1)</script>",
	}
	msg, err := BuildContactEmail(sub, "to@example.com", "from@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("expected user markup to be escaped in HTML body")
	}
	if !strings.Contains(msg.HTML, "line one<br>&lt;script&gt;") {
		t.Errorf("expected newline as <br>, got:\n%s", msg.HTML)
	}
	if !strings.Contains(msg.Text, "Company: Not provided") {
		t.Errorf("expected Not provided company, got:\n%s", msg.Text)
	}
	if !strings.Contains(msg.HTML, "<strong>Company:</strong> Not provided") {
		t.Errorf("expected Not provided company in HTML, got:\n%s", msg.HTML)
	}
}

func TestBuildContactEmail_WithCompany(t *testing.T) {
	company := "Acme"
	sub := &model.ContactSubmission{Name: "A", Email: "a@b", Company: &company, Message: "hello"}
	msg, _ := BuildContactEmail(sub, "to@example.com", "from@example.com")
	if !strings.Contains(msg.Text, "Company: Acme") {
		t.Errorf("expected company in text body, got:\n%s", msg.Text)
	}
}
