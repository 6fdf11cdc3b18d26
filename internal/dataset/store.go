package dataset

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/riskboard/internal/domain"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/metrics"
)

// Load triggers, used as metric labels.
const (
	TriggerStartup = "startup"
	TriggerManual  = "manual"
	TriggerWatch   = "watch"
)

// Config locates the two CSV files.
type Config struct {
	NewsSource    string
	CompanySource string
	FetchTimeout  time.Duration
}

// Status describes the current snapshot and the most recent load attempt.
type Status struct {
	Loaded      bool      `json:"loaded"`
	Loading     bool      `json:"loading"`
	LoadedAt    time.Time `json:"loaded_at,omitzero"`
	NewsRows    int       `json:"news_rows"`
	CompanyRows int       `json:"company_rows"`
	LastAttempt time.Time `json:"last_attempt,omitzero"`
	LastError   string    `json:"last_error,omitempty"`
	NewsSource  string    `json:"news_source"`
	CorpSource  string    `json:"company_source"`
}

type loadCall struct {
	done chan struct{}
	err  error
}

// Store holds the current Snapshot. Reads never block; a load replaces the
// snapshot only after both files were fetched and parsed.
type Store struct {
	cfg     Config
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time

	current atomic.Pointer[Snapshot]

	mu          sync.Mutex
	inflight    *loadCall
	lastAttempt time.Time
	lastErr     error
}

// NewStore creates a Store holding an empty snapshot.
func NewStore(cfg Config, fetcher Fetcher, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{cfg: cfg, fetcher: fetcher, logger: logger, now: time.Now}
	s.current.Store(emptySnapshot())
	return s
}

// Snapshot returns the current snapshot. It is never nil.
func (s *Store) Snapshot() *Snapshot { return s.current.Load() }

// Ready returns domain.ErrDatasetUnavailable until a load has succeeded.
func (s *Store) Ready(_ context.Context) error {
	if s.Snapshot().LoadedAt().IsZero() {
		return domain.ErrDatasetUnavailable
	}
	return nil
}

// Load fetches both files and swaps in a new snapshot. Concurrent callers
// share the in-flight load and its result. On failure the previous snapshot
// stays in place.
func (s *Store) Load(ctx context.Context, trigger string) error {
	s.mu.Lock()
	if c := s.inflight; c != nil {
		s.mu.Unlock()
		select {
		case <-c.done:
			return c.err
		case <-ctx.Done():
			return fmt.Errorf("wait for load: %w", ctx.Err())
		}
	}
	c := &loadCall{done: make(chan struct{})}
	s.inflight = c
	s.mu.Unlock()

	c.err = s.load(ctx, trigger)

	s.mu.Lock()
	s.inflight = nil
	s.lastAttempt = s.now()
	s.lastErr = c.err
	s.mu.Unlock()
	close(c.done)

	return c.err
}

func (s *Store) load(ctx context.Context, trigger string) error {
	start := time.Now()
	if s.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.FetchTimeout)
		defer cancel()
	}

	var (
		news      []record.News
		companies []record.Company
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := s.fetchCSV(gctx, s.cfg.NewsSource)
		if err != nil {
			return fmt.Errorf("news: %w", err)
		}
		news = NewsFromRecords(recs)
		return nil
	})
	g.Go(func() error {
		recs, err := s.fetchCSV(gctx, s.cfg.CompanySource)
		if err != nil {
			return fmt.Errorf("companies: %w", err)
		}
		companies = CompaniesFromRecords(recs)
		return nil
	})

	err := g.Wait()
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(trigger, "error").Inc()
		s.logger.Error("Dataset load failed, keeping previous snapshot",
			zap.String("trigger", trigger),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("load dataset: %w", err)
	}

	s.current.Store(NewSnapshot(news, companies, s.now()))
	metrics.DatasetLoadsTotal.WithLabelValues(trigger, "ok").Inc()
	metrics.DatasetRows.WithLabelValues("news").Set(float64(len(news)))
	metrics.DatasetRows.WithLabelValues("companies").Set(float64(len(companies)))

	s.logger.Info("Dataset loaded",
		zap.String("trigger", trigger),
		zap.Int("news_rows", len(news)),
		zap.Int("company_rows", len(companies)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Store) fetchCSV(ctx context.Context, src string) ([]record.Record, error) {
	if src == "" {
		return nil, fmt.Errorf("no source configured")
	}
	body, err := s.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	recs, err := ParseCSV(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	return recs, nil
}

// Status reports the current snapshot and the last load attempt.
func (s *Store) Status() Status {
	snap := s.Snapshot()
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Loaded:      !snap.LoadedAt().IsZero(),
		Loading:     s.inflight != nil,
		LoadedAt:    snap.LoadedAt(),
		NewsRows:    len(snap.News()),
		CompanyRows: len(snap.Companies()),
		LastAttempt: s.lastAttempt,
		NewsSource:  s.cfg.NewsSource,
		CorpSource:  s.cfg.CompanySource,
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// LocalPaths returns the file paths of the non-HTTP sources.
func (s *Store) LocalPaths() []string {
	var out []string
	for _, src := range []string{s.cfg.NewsSource, s.cfg.CompanySource} {
		if src != "" && !IsRemote(src) {
			out = append(out, LocalPath(src))
		}
	}
	return out
}
