// Package preferences persists display preferences as one JSON document per profile.
package preferences

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/domain"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/repository"
)

// store is the consumer interface for preferences (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/preferences.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a preferences repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(profile string) string {
	return repository.Key(r.prefix, "preferences", profile)
}

// Load returns the stored preferences of profile, or domain.ErrNotFound.
func (r *Repo) Load(ctx context.Context, profile string) (domprefs.Preferences, error) {
	b, err := r.store.Get(ctx, r.key(profile))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprefs.Preferences{}, domain.ErrNotFound
		}
		return domprefs.Preferences{}, fmt.Errorf("load preferences %s: %w", profile, err)
	}
	return decode(b)
}

// Save writes the preferences of profile.
func (r *Repo) Save(ctx context.Context, profile string, p domprefs.Preferences) error {
	b, err := encode(p)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.key(profile), b); err != nil {
		return fmt.Errorf("save preferences %s: %w", profile, err)
	}
	return nil
}
