// Package sqlite implements db.Store on a single SQLite table through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/riskboard/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Config holds the database location.
type Config struct {
	// Path is a file path or a SQLite DSN such as "file::memory:?cache=shared".
	Path string
}

// Expiry times are stored in UTC so they compare as text.
type entry struct {
	Key       string `gorm:"column:kv_key;primaryKey;size:512"`
	Value     []byte
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "kv_entries" }

// Store implements db.Store on SQLite.
type Store struct {
	gdb *gorm.DB
	now func() time.Time
}

// NewStore opens the database and migrates the key-value table.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	gdb, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: err}
	}
	if err := gdb.AutoMigrate(&entry{}); err != nil {
		return nil, &db.Error{Op: db.OpOpen, Err: fmt.Errorf("migrate: %w", err)}
	}
	return &Store{gdb: gdb, now: func() time.Time { return time.Now().UTC() }}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.gdb.DB()
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	if sqlDB, err := s.gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return db.PollReady(ctx, s, timeout, 100*time.Millisecond) //nolint:wrapcheck // already wrapped
}

func (s *Store) live(ctx context.Context) *gorm.DB {
	return s.gdb.WithContext(ctx).
		Where("expires_at IS NULL OR expires_at > ?", s.now())
}

// Get retrieves a value by key. Expired entries read as missing.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var e entry
	err := s.live(ctx).Where("kv_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return e.Value, nil
}

// Set stores a value at the given key without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.upsert(ctx, entry{Key: key, Value: value})
}

// SetWithTTL stores a value that expires after ttl.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	exp := s.now().Add(ttl)
	return s.upsert(ctx, entry{Key: key, Value: value, ExpiresAt: &exp})
}

func (s *Store) upsert(ctx context.Context, e entry) error {
	err := s.gdb.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kv_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// Del deletes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.gdb.WithContext(ctx).Where("kv_key = ?", key).Delete(&entry{}).Error; err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}

// Exists checks if a live key exists.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	if err := s.live(ctx).Model(&entry{}).Where("kv_key = ?", key).Count(&n).Error; err != nil {
		return false, &db.Error{Op: db.OpExists, Err: err}
	}
	return n > 0, nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.gdb.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", s.now()).
		Delete(&entry{})
	if res.Error != nil {
		return 0, &db.Error{Op: db.OpDel, Err: res.Error}
	}
	return res.RowsAffected, nil
}
