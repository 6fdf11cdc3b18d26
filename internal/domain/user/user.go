// Package user defines dashboard accounts and login sessions.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// User is a registered account. ProfileID scopes preferences and watchlist.
type User struct {
	Email        string
	Name         string
	ProfileID    string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Session is an issued bearer token.
type Session struct {
	Token     string
	Email     string
	Name      string
	ProfileID string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// NormalizeEmail lowercases and trims an address, returning an error when it
// does not parse.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid email %q", domain.ErrInvalidQuery, email)
	}
	return email, nil
}

// ValidatePassword enforces the minimum length.
func ValidatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidQuery, MinPasswordLen)
	}
	return nil
}
