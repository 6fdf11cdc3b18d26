// Package watchlist persists each profile's watched company names as a JSON array.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/repository"
)

// store is the consumer interface for watchlists (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo implements usecase/watchlist.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a watchlist repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

func (r *Repo) key(profile string) string {
	return repository.Key(r.prefix, "watchlist", profile)
}

// Load returns the watched names in insertion order. A missing list is empty.
func (r *Repo) Load(ctx context.Context, profile string) ([]string, error) {
	b, err := r.store.Get(ctx, r.key(profile))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("load watchlist %s: %w", profile, err)
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("unmarshal watchlist %s: %w", profile, err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// Save replaces the watched names of profile.
func (r *Repo) Save(ctx context.Context, profile string, names []string) error {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("marshal watchlist: %w", err)
	}
	if err := r.store.Set(ctx, r.key(profile), b); err != nil {
		return fmt.Errorf("save watchlist %s: %w", profile, err)
	}
	return nil
}
