// Package briefcache caches chat completions in the key-value store.
package briefcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/db"
	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/repository"
)

// store is the consumer interface for the brief cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// CachedCompleter caches completions keyed by the full request.
type CachedCompleter struct {
	inner      domain.Completer
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Completer,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached completion or calls the inner completer.
// Cache hit: zero tokens, Cached set.
func (c *CachedCompleter) Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error) {
	key := c.cacheKey(req)

	if e, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.CompletionResult{Text: e.Text, Model: e.Model, Cached: true}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Complete(ctx, req)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}

	c.putToCache(ctx, key, entry{Text: result.Text, Model: result.Model})
	return result, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedCompleter) cacheKey(req domain.CompletionRequest) string {
	h := sha256.New()
	h.Write([]byte(req.System))
	h.Write([]byte{0})
	h.Write([]byte(req.Prompt))
	return repository.Key(c.prefix, "brief", hex.EncodeToString(h.Sum(nil)))
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached brief", zap.String("key", key), zap.Error(err))
		}
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Text == "" {
		c.logger.Warn("Failed to parse cached brief", zap.String("key", key), zap.Error(err))
		return entry{}, false
	}
	return e, true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache brief", zap.String("key", key), zap.Error(err))
	}
}
