// Package auth implements demo login, registration and bearer token checks.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/user"
)

// DefaultSessionTTL applies when Config.SessionTTL is zero.
const DefaultSessionTTL = 24 * time.Hour

// APIKeyProfile is the profile id shared by all static API key callers.
const APIKeyProfile = "api"

// DemoUser is a built-in account accepted without registration.
type DemoUser struct {
	Email    string
	Password string
	Name     string
}

// Config controls which credentials are accepted.
type Config struct {
	APIKeys    []string
	DemoUsers  []DemoUser
	SessionTTL time.Duration
}

// Principal identifies the caller of an authenticated request.
type Principal struct {
	ProfileID string
	Email     string
	Name      string
	APIKey    bool
}

// Service issues and validates bearer tokens.
type Service struct {
	repo    Repository
	apiKeys [][]byte
	demo    map[string]DemoUser
	ttl     time.Duration
	now     func() time.Time
}

// New creates an auth service.
func New(repo Repository, cfg Config) *Service {
	s := &Service{
		repo: repo,
		demo: make(map[string]DemoUser, len(cfg.DemoUsers)),
		ttl:  cfg.SessionTTL,
		now:  time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSessionTTL
	}
	for _, k := range cfg.APIKeys {
		if k != "" {
			s.apiKeys = append(s.apiKeys, []byte(k))
		}
	}
	for _, d := range cfg.DemoUsers {
		email := strings.ToLower(strings.TrimSpace(d.Email))
		if email == "" {
			continue
		}
		d.Email = email
		s.demo[email] = d
	}
	return s
}

// Enabled reports whether any credential is configured. With none, every
// request is served as the API key profile.
func (s *Service) Enabled() bool {
	return len(s.apiKeys) > 0 || len(s.demo) > 0
}

// Login checks email and password against the demo users, then registered
// users, and issues a session.
func (s *Service) Login(ctx context.Context, email, password string) (user.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return user.Session{}, domain.ErrInvalidCredentials
	}

	if d, ok := s.demo[email]; ok {
		if subtle.ConstantTimeCompare([]byte(d.Password), []byte(password)) != 1 {
			return user.Session{}, domain.ErrInvalidCredentials
		}
		return s.issue(ctx, user.User{Email: d.Email, Name: d.Name, ProfileID: d.Email})
	}

	u, err := s.repo.GetUser(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return user.Session{}, domain.ErrInvalidCredentials
		}
		return user.Session{}, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return user.Session{}, domain.ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Register creates an account. An email already registered, or reserved by a
// demo user, returns domain.ErrAlreadyExists.
func (s *Service) Register(ctx context.Context, email, name, password string) (user.User, error) {
	email, err := user.NormalizeEmail(email)
	if err != nil {
		return user.User{}, err //nolint:wrapcheck // domain validation error
	}
	if err := user.ValidatePassword(password); err != nil {
		return user.User{}, err //nolint:wrapcheck // domain validation error
	}
	if _, ok := s.demo[email]; ok {
		return user.User{}, fmt.Errorf("user %s: %w", email, domain.ErrAlreadyExists)
	}
	exists, err := s.repo.UserExists(ctx, email)
	if err != nil {
		return user.User{}, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return user.User{}, fmt.Errorf("user %s: %w", email, domain.ErrAlreadyExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	u := user.User{
		Email:        email,
		Name:         name,
		ProfileID:    email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.SaveUser(ctx, u); err != nil {
		return user.User{}, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// Logout revokes token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to a principal. Static API keys are
// checked first; otherwise token must name a live session.
func (s *Service) Authenticate(ctx context.Context, token string) (Principal, error) {
	if token == "" {
		return Principal{}, domain.ErrUnauthorized
	}
	for _, k := range s.apiKeys {
		if subtle.ConstantTimeCompare(k, []byte(token)) == 1 {
			return Principal{ProfileID: APIKeyProfile, APIKey: true}, nil
		}
	}

	sess, err := s.repo.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Principal{}, domain.ErrUnauthorized
		}
		return Principal{}, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		return Principal{}, domain.ErrUnauthorized
	}
	return Principal{ProfileID: sess.ProfileID, Email: sess.Email, Name: sess.Name}, nil
}

func (s *Service) issue(ctx context.Context, u user.User) (user.Session, error) {
	sess := user.Session{
		Token:     uuid.NewString(),
		Email:     u.Email,
		Name:      u.Name,
		ProfileID: u.ProfileID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.repo.SaveSession(ctx, sess, s.ttl); err != nil {
		return user.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}
