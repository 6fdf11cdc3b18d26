// Package watchlist manages the companies each profile follows.
package watchlist

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
)

// Service adds, removes and lists watched companies. Names are stored in
// their canonical spelling from the company file.
type Service struct {
	repo Repository
	data DatasetReader

	// serializes read-modify-write per service; lists are small
	mu sync.Mutex
}

// New creates a watchlist service.
func New(repo Repository, data DatasetReader) *Service {
	return &Service{repo: repo, data: data}
}

// Names returns the watched names in insertion order.
func (s *Service) Names(ctx context.Context, profile string) ([]string, error) {
	names, err := s.repo.Load(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}
	return names, nil
}

// Companies returns the watched companies present in the current snapshot.
// Names no longer in the company file are skipped.
func (s *Service) Companies(ctx context.Context, profile string) ([]record.Company, error) {
	names, err := s.Names(ctx, profile)
	if err != nil {
		return nil, err
	}
	snap := s.data.Snapshot()
	out := make([]record.Company, 0, len(names))
	for _, n := range names {
		if c, ok := snap.Company(n); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// IsWatched reports whether profile watches name.
func (s *Service) IsWatched(ctx context.Context, profile, name string) (bool, error) {
	names, err := s.Names(ctx, profile)
	if err != nil {
		return false, err
	}
	return indexOf(names, name) >= 0, nil
}

// Add watches name. The company must exist; adding twice is a no-op.
func (s *Service) Add(ctx context.Context, profile, name string) (record.Company, error) {
	c, ok := s.data.Snapshot().Company(name)
	if !ok {
		return record.Company{}, fmt.Errorf("company %q: %w", name, domain.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.Names(ctx, profile)
	if err != nil {
		return record.Company{}, err
	}
	if indexOf(names, c.Name) >= 0 {
		return c, nil
	}
	if err := s.repo.Save(ctx, profile, append(names, c.Name)); err != nil {
		return record.Company{}, fmt.Errorf("save watchlist: %w", err)
	}
	return c, nil
}

// Remove stops watching name. Removing an unwatched name returns domain.ErrNotFound.
func (s *Service) Remove(ctx context.Context, profile, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.Names(ctx, profile)
	if err != nil {
		return err
	}
	i := indexOf(names, name)
	if i < 0 {
		return fmt.Errorf("watched company %q: %w", name, domain.ErrNotFound)
	}
	if err := s.repo.Save(ctx, profile, slices.Delete(names, i, i+1)); err != nil {
		return fmt.Errorf("save watchlist: %w", err)
	}
	return nil
}

func indexOf(names []string, name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	return slices.IndexFunc(names, func(n string) bool {
		return strings.ToLower(strings.TrimSpace(n)) == key
	})
}
