// Package account persists registered users and login sessions.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/user"
	"github.com/kailas-cloud/riskboard/internal/repository"
)

// store is the consumer interface for accounts (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

type userRow struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	ProfileID    string    `json:"profile_id"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type sessionRow struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ProfileID string    `json:"profile_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repo implements usecase/auth.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an account repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) userKey(email string) string { return repository.Key(r.prefix, "user", email) }

func (r *Repo) sessionKey(token string) string { return repository.Key(r.prefix, "session", token) }

// UserExists reports whether email is registered.
func (r *Repo) UserExists(ctx context.Context, email string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.userKey(email))
	if err != nil {
		return false, fmt.Errorf("user exists %s: %w", email, err)
	}
	return ok, nil
}

// GetUser returns the user registered under email, or domain.ErrNotFound.
func (r *Repo) GetUser(ctx context.Context, email string) (user.User, error) {
	b, err := r.store.Get(ctx, r.userKey(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return user.User{}, domain.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user %s: %w", email, err)
	}
	var row userRow
	if err := json.Unmarshal(b, &row); err != nil {
		return user.User{}, fmt.Errorf("unmarshal user %s: %w", email, err)
	}
	return user.User(row), nil
}

// SaveUser writes u.
func (r *Repo) SaveUser(ctx context.Context, u user.User) error {
	b, err := json.Marshal(userRow(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := r.store.Set(ctx, r.userKey(u.Email), b); err != nil {
		return fmt.Errorf("save user %s: %w", u.Email, err)
	}
	return nil
}

// SaveSession stores s until its expiry.
func (r *Repo) SaveSession(ctx context.Context, s user.Session, ttl time.Duration) error {
	b, err := json.Marshal(sessionRow{Email: s.Email, Name: s.Name, ProfileID: s.ProfileID, ExpiresAt: s.ExpiresAt})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, r.sessionKey(s.Token), b, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// GetSession returns the session for token, or domain.ErrNotFound.
func (r *Repo) GetSession(ctx context.Context, token string) (user.Session, error) {
	b, err := r.store.Get(ctx, r.sessionKey(token))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return user.Session{}, domain.ErrNotFound
		}
		return user.Session{}, fmt.Errorf("get session: %w", err)
	}
	var row sessionRow
	if err := json.Unmarshal(b, &row); err != nil {
		return user.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return user.Session{
		Token:     token,
		Email:     row.Email,
		Name:      row.Name,
		ProfileID: row.ProfileID,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

// DeleteSession removes token.
func (r *Repo) DeleteSession(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, r.sessionKey(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
