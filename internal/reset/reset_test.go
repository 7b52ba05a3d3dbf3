package reset

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"prayerchain/internal/data"
	"prayerchain/internal/logger"
	"prayerchain/internal/mailer"
)

// fakeStore keeps agents in memory, indexed by email, mimicking the
// all-or-nothing save of the real store.
type fakeStore struct {
	agents  map[string]*data.Agent
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{agents: make(map[string]*data.Agent)}
}

func (s *fakeStore) put(a *data.Agent) {
	s.agents[a.Email] = a.Clone()
}

func (s *fakeStore) FindByEmail(ctx context.Context, email string) (*data.Agent, error) {
	a, ok := s.agents[email]
	if !ok {
		return nil, data.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *fakeStore) FindByResetToken(ctx context.Context, token string) (*data.Agent, error) {
	for _, a := range s.agents {
		if a.ResetPasswordToken != "" && a.ResetPasswordToken == token {
			return a.Clone(), nil
		}
	}
	return nil, data.ErrNotFound
}

func (s *fakeStore) Save(ctx context.Context, agent *data.Agent) (*data.Agent, error) {
	if s.saveErr != nil {
		return nil, s.saveErr
	}
	if err := agent.Validate(); err != nil {
		return nil, err
	}
	s.agents[agent.Email] = agent.Clone()
	return agent, nil
}

func newTestFlow(t *testing.T) (*Flow, *fakeStore, *mailer.Mock) {
	t.Helper()
	store := newFakeStore()
	mock := mailer.NewMock()
	flow := NewFlow(store, mock, "admin@prayerchain.example", "http://localhost:3000", logger.NewNop())
	return flow, store, mock
}

func seedAgent(store *fakeStore) *data.Agent {
	agent := data.NewAgent("horst@example.com", "oldsecret", "Horst")
	store.put(agent)
	return agent
}

func TestRequest_PersistsTokenAndSendsMail(t *testing.T) {
	flow, store, mock := newTestFlow(t)
	seedAgent(store)

	saved, err := flow.Request(context.Background(), "  Horst@Example.COM ")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if saved.ResetPasswordToken == "" {
		t.Fatal("no token generated")
	}
	if saved.ResetPasswordExpires == nil {
		t.Fatal("no expiry set")
	}
	until := time.Until(*saved.ResetPasswordExpires)
	if until < 59*time.Minute || until > 61*time.Minute {
		t.Fatalf("expiry not about an hour out: %v", until)
	}

	persisted, err := store.FindByResetToken(context.Background(), saved.ResetPasswordToken)
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if persisted.Email != "horst@example.com" {
		t.Fatalf("token attached to wrong agent: %s", persisted.Email)
	}

	sent := mock.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sent))
	}
	msg := sent[0]
	if msg.To != "horst@example.com" {
		t.Fatalf("mailed wrong address: %s", msg.To)
	}
	if msg.Subject != Subject {
		t.Fatalf("unexpected subject: %q", msg.Subject)
	}
	link := "http://localhost:3000/reset/" + saved.ResetPasswordToken
	if !strings.Contains(msg.Text, link) {
		t.Fatalf("mail body missing reset link %q:\n%s", link, msg.Text)
	}
}

func TestRequest_UnknownEmail(t *testing.T) {
	flow, _, mock := newTestFlow(t)

	_, err := flow.Request(context.Background(), "nobody@example.com")
	if !errors.Is(err, data.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(mock.Sent()) != 0 {
		t.Fatal("mail sent for unknown email")
	}
}

// a send failure is logged, not surfaced: the token stays persisted so
// the agent can request the link again
func TestRequest_MailFailureKeepsToken(t *testing.T) {
	flow, store, mock := newTestFlow(t)
	seedAgent(store)
	mock.Err = errors.New("smtp down")

	saved, err := flow.Request(context.Background(), "horst@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if _, err := store.FindByResetToken(context.Background(), saved.ResetPasswordToken); err != nil {
		t.Fatalf("token rolled back on mail failure: %v", err)
	}
}

func TestConsume_ReplacesPasswordAndClearsToken(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	seedAgent(store)

	saved, err := flow.Request(context.Background(), "horst@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	agent, err := flow.Consume(context.Background(), saved.ResetPasswordToken, "newsecret", "newsecret")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if agent.ResetPasswordToken != "" || agent.ResetPasswordExpires != nil {
		t.Fatal("token not invalidated")
	}
	if !agent.PasswordDirty() {
		t.Fatal("new password not staged")
	}

	// the token is single-use
	if _, err := flow.Consume(context.Background(), saved.ResetPasswordToken, "again", "again"); !errors.Is(err, data.ErrTokenExpired) {
		t.Fatalf("consumed token reusable: %v", err)
	}
}

func TestConsume_PasswordMismatch(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	seedAgent(store)

	saved, err := flow.Request(context.Background(), "horst@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	_, err = flow.Consume(context.Background(), saved.ResetPasswordToken, "one", "two")
	ve, ok := data.AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["password"] != "Passwords don't match" {
		t.Fatalf("unexpected message: %q", ve.Fields["password"])
	}
}

func TestConsume_UnknownToken(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	_, err := flow.Consume(context.Background(), "bogus", "x", "x")
	if !errors.Is(err, data.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestConsume_ExpiredToken(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	seedAgent(store)

	saved, err := flow.Request(context.Background(), "horst@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	flow.now = func() time.Time { return time.Now().Add(Window + time.Minute) }

	if _, err := flow.Consume(context.Background(), saved.ResetPasswordToken, "x", "x"); !errors.Is(err, data.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestPeek(t *testing.T) {
	flow, store, _ := newTestFlow(t)
	seedAgent(store)

	if err := flow.Peek(context.Background(), "bogus"); !errors.Is(err, data.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	saved, err := flow.Request(context.Background(), "horst@example.com")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if err := flow.Peek(context.Background(), saved.ResetPasswordToken); err != nil {
		t.Fatalf("Peek rejected live token: %v", err)
	}

	flow.now = func() time.Time { return time.Now().Add(Window + time.Minute) }
	if err := flow.Peek(context.Background(), saved.ResetPasswordToken); !errors.Is(err, data.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
