package user

import (
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/riskboard/internal/domain"
)

func TestNormalizeEmail(t *testing.T) {
	got, err := NormalizeEmail("  Test@HSBC.hk ")
	if err != nil || got != "test@hsbc.hk" {
		t.Errorf("NormalizeEmail() = %q, %v", got, err)
	}
	for _, bad := range []string{"", "nobody", "Name <a@b.c>"} {
		if _, err := NormalizeEmail(bad); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("NormalizeEmail(%q) error = %v", bad, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePassword("12345"); !errors.Is(err, domain.ErrInvalidQuery) {
		t.Errorf("expected ErrInvalidQuery, got %v", err)
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Error("session should be live")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Error("session should expire at ExpiresAt")
	}
}
