package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/user"
)

// --- Mocks ---

type mockRepo struct {
	users    map[string]user.User
	sessions map[string]user.Session
	getErr   error
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: map[string]user.User{}, sessions: map[string]user.Session{}}
}

func (m *mockRepo) UserExists(_ context.Context, email string) (bool, error) {
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockRepo) GetUser(_ context.Context, email string) (user.User, error) {
	if m.getErr != nil {
		return user.User{}, m.getErr
	}
	u, ok := m.users[email]
	if !ok {
		return user.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) SaveUser(_ context.Context, u user.User) error {
	m.users[u.Email] = u
	return nil
}

func (m *mockRepo) SaveSession(_ context.Context, s user.Session, _ time.Duration) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *mockRepo) GetSession(_ context.Context, token string) (user.Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return user.Session{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) DeleteSession(_ context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

func demoConfig() Config {
	return Config{
		APIKeys:   []string{"secret"},
		DemoUsers: []DemoUser{{Email: "test@hsbc.hk", Password: "123456", Name: "Test User"}},
	}
}

// --- Tests ---

func TestLogin_DemoUser(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, demoConfig())

	sess, err := svc.Login(context.Background(), " Test@HSBC.hk ", "123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Token == "" || sess.ProfileID != "test@hsbc.hk" {
		t.Errorf("unexpected session %+v", sess)
	}
	if _, ok := repo.sessions[sess.Token]; !ok {
		t.Error("session not persisted")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := New(newMockRepo(), demoConfig())
	_, err := svc.Login(context.Background(), "test@hsbc.hk", "654321")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	svc := New(newMockRepo(), demoConfig())
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	repo := newMockRepo()
	repo.getErr = errors.New("conn refused")
	svc := New(repo, demoConfig())
	_, err := svc.Login(context.Background(), "someone@example.com", "whatever")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, demoConfig())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Jane@Example.com", "", "hunter22")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "jane@example.com" || u.Name != "jane" || u.ProfileID != "jane@example.com" {
		t.Errorf("unexpected user %+v", u)
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte("hunter22")) != nil {
		t.Error("password hash does not verify")
	}

	sess, err := svc.Login(ctx, "jane@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.ProfileID != u.ProfileID {
		t.Errorf("ProfileID = %q, want %q", sess.ProfileID, u.ProfileID)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc := New(newMockRepo(), demoConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.co", "A", "abcdef"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "A@B.co", "A", "abcdef"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
	if _, err := svc.Register(ctx, "test@hsbc.hk", "T", "abcdef"); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("demo email: expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc := New(newMockRepo(), Config{})
	ctx := context.Background()

	if _, err := svc.Register(ctx, "not-an-email", "", "abcdef"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("bad email: got %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.co", "", "123"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("short password: got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, demoConfig())
	ctx := context.Background()

	p, err := svc.Authenticate(ctx, "secret")
	if err != nil || !p.APIKey || p.ProfileID != APIKeyProfile {
		t.Fatalf("api key: %+v, %v", p, err)
	}

	sess, err := svc.Login(ctx, "test@hsbc.hk", "123456")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	p, err = svc.Authenticate(ctx, sess.Token)
	if err != nil || p.Email != "test@hsbc.hk" {
		t.Fatalf("session: %+v, %v", p, err)
	}

	if _, err := svc.Authenticate(ctx, "bogus"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("bogus token: got %v", err)
	}
	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("empty token: got %v", err)
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, Config{SessionTTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	if _, err := svc.Register(context.Background(), "a@b.co", "A", "abcdef"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	sess, err := svc.Login(context.Background(), "a@b.co", "abcdef")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := svc.Authenticate(context.Background(), sess.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo, demoConfig())
	ctx := context.Background()

	sess, _ := svc.Login(ctx, "test@hsbc.hk", "123456")
	if err := svc.Logout(ctx, sess.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, sess.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestEnabled(t *testing.T) {
	if New(newMockRepo(), Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !New(newMockRepo(), demoConfig()).Enabled() {
		t.Error("demo config should be enabled")
	}
}
