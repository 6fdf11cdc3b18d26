// Package file implements db.Store as one JSON file per key in a directory.
// It suits single-process deployments that need no external database.
package file

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kailas-cloud/riskboard/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type envelope struct {
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Store keeps each key in dir/<hex(key)>.json.
type Store struct {
	dir string
	mu  sync.RWMutex
	now func() time.Time
}

// NewStore creates dir if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	return &Store{dir: dir, now: time.Now}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

// Ping checks that the directory is still accessible.
func (s *Store) Ping(_ context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady polls Ping until the directory is accessible or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout, 100*time.Millisecond) //nolint:wrapcheck // already wrapped
}

func (s *Store) read(key string) (envelope, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return envelope{}, db.ErrKeyNotFound
	}
	if err != nil {
		return envelope{}, &db.Error{Op: db.OpGet, Err: err}
	}
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return envelope{}, &db.Error{Op: db.OpGet, Err: fmt.Errorf("decode %s: %w", key, err)}
	}
	if env.ExpiresAt != nil && !s.now().Before(*env.ExpiresAt) {
		return envelope{}, db.ErrKeyNotFound
	}
	return env, nil
}

// Get retrieves a value by key. Expired entries read as missing.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env, err := s.read(key)
	if err != nil {
		return nil, err
	}
	return env.Value, nil
}

// Set stores a value at the given key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	return s.write(key, envelope{Value: value})
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	exp := s.now().Add(ttl)
	return s.write(key, envelope{Value: value, ExpiresAt: &exp})
}

// write replaces the file atomically via a temp file and rename.
func (s *Store) write(key string, env envelope) error {
	b, err := json.Marshal(env)
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &db.Error{Op: db.OpSet, Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &db.Error{Op: db.OpSet, Err: err}
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a live key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := s.read(key)
	if errors.Is(err, db.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return true, nil
}
