// Package preferences implements the per-profile display preferences store.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/domain"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	logpkg "github.com/kailas-cloud/riskboard/internal/logger"
)

// Service caches each profile's preferences after the first read and writes
// every change through to the repository.
type Service struct {
	repo Repository

	mu    sync.Mutex
	cache map[string]domprefs.Preferences
}

// New creates a preferences service.
func New(repo Repository) *Service {
	return &Service{repo: repo, cache: make(map[string]domprefs.Preferences)}
}

// Get returns the preferences of profile. It never fails: a missing or
// unreadable document yields defaults.
func (s *Service) Get(ctx context.Context, profile string) domprefs.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, _ := s.loadLocked(ctx, profile)
	return p
}

// loadLocked returns the cached or stored preferences of profile. Missing and
// corrupt documents resolve to cached defaults. Any other load failure also
// yields defaults but is returned and not cached, so the next call retries
// and writers do not replace a document they could not read.
func (s *Service) loadLocked(ctx context.Context, profile string) (domprefs.Preferences, error) {
	if p, ok := s.cache[profile]; ok {
		return p, nil
	}
	p, err := s.repo.Load(ctx, profile)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		p = domprefs.Defaults()
	case errors.Is(err, domain.ErrInvalidPreference):
		logpkg.FromContext(ctx).Warn("Stored preferences unreadable, using defaults",
			zap.String("profile", profile),
			zap.Error(err),
		)
		p = domprefs.Defaults()
	default:
		logpkg.FromContext(ctx).Warn("Preferences load failed, using defaults",
			zap.String("profile", profile),
			zap.Error(err),
		)
		return domprefs.Defaults(), fmt.Errorf("load preferences: %w", err)
	}
	s.cache[profile] = p
	return p, nil
}

// PageSize returns the stored page size of view for profile.
func (s *Service) PageSize(ctx context.Context, profile string, view domprefs.View) int {
	return int(s.Get(ctx, profile).PageSize(view))
}

// Set validates value for key and persists the change. value is a page size
// number for page size keys and a JSON section array for section keys. The
// cached copy changes only after a successful save.
func (s *Service) Set(ctx context.Context, profile string, key domprefs.Key, value json.RawMessage) (domprefs.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loadLocked(ctx, profile)
	if err != nil {
		return cur, err
	}
	next, err := apply(cur, key, value)
	if err != nil {
		return cur, err
	}
	return s.commitLocked(ctx, profile, cur, next)
}

// Reset restores key to its default and persists the change.
func (s *Service) Reset(ctx context.Context, profile string, key domprefs.Key) (domprefs.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.loadLocked(ctx, profile)
	if err != nil {
		return cur, err
	}
	next, err := cur.Reset(key)
	if err != nil {
		return cur, err //nolint:wrapcheck // domain error
	}
	return s.commitLocked(ctx, profile, cur, next)
}

func (s *Service) commitLocked(ctx context.Context, profile string, cur, next domprefs.Preferences) (domprefs.Preferences, error) {
	if err := s.repo.Save(ctx, profile, next); err != nil {
		return cur, fmt.Errorf("persist preferences: %w", err)
	}
	s.cache[profile] = next
	return next, nil
}

func apply(p domprefs.Preferences, key domprefs.Key, value json.RawMessage) (domprefs.Preferences, error) {
	if v, ok := key.PageSizeView(); ok {
		size, err := decodePageSize(value)
		if err != nil {
			return p, err
		}
		return p.WithPageSize(v, size) //nolint:wrapcheck // domain error
	}
	if key.IsSections() {
		var secs []domprefs.Section
		if err := json.Unmarshal(value, &secs); err != nil {
			return p, fmt.Errorf("%w: %s must be a section array: %w", domain.ErrInvalidPreference, key, err)
		}
		return p.WithSections(key, secs) //nolint:wrapcheck // domain error
	}
	return p, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidPreference, key)
}

// decodePageSize accepts 20 or "20".
func decodePageSize(value json.RawMessage) (domprefs.PageSize, error) {
	var n int
	if err := json.Unmarshal(value, &n); err == nil {
		return domprefs.ParsePageSize(strconv.Itoa(n)) //nolint:wrapcheck // domain error
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, fmt.Errorf("%w: page size must be a number", domain.ErrInvalidPreference)
	}
	return domprefs.ParsePageSize(s) //nolint:wrapcheck // domain error
}
