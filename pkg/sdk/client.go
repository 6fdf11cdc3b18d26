package riskboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/db"
	dbFile "github.com/kailas-cloud/riskboard/internal/db/file"
	dbRedis "github.com/kailas-cloud/riskboard/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/riskboard/internal/db/sqlite"
	domprefs "github.com/kailas-cloud/riskboard/internal/domain/preferences"
	"github.com/kailas-cloud/riskboard/internal/domain/record"
	"github.com/kailas-cloud/riskboard/internal/domain/view"
	prefsrepo "github.com/kailas-cloud/riskboard/internal/repository/preferences"
	watchlistrepo "github.com/kailas-cloud/riskboard/internal/repository/watchlist"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	healthuc "github.com/kailas-cloud/riskboard/internal/usecase/health"
	prefsuc "github.com/kailas-cloud/riskboard/internal/usecase/preferences"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	"github.com/kailas-cloud/riskboard/internal/usecase/table"
	watchlistuc "github.com/kailas-cloud/riskboard/internal/usecase/watchlist"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultFetchTimeout     = 30 * time.Second
	defaultProfile          = "sdk"
	defaultPrefix           = "riskboard"
)

// Internal interfaces so tests can substitute the services.
type browseUseCase interface {
	News(ctx context.Context, profile string, q view.Query) table.Page[record.News]
	Companies(ctx context.Context, profile string, q view.Query) table.Page[record.Company]
	Watchlist(ctx context.Context, profile string, q view.Query) (table.Page[record.Company], error)
	NewsByID(id int) (browse.NewsDetail, error)
	Company(name string) (browse.CompanyDetail, error)
	NewsFacets(field string) ([]table.Facet, error)
	CompanyFacets(field string) ([]table.Facet, error)
}

type searchUseCase interface {
	Search(ctx context.Context, profile string, req searchuc.Request) searchuc.Response
}

type preferencesUseCase interface {
	Get(ctx context.Context, profile string) domprefs.Preferences
	Set(ctx context.Context, profile string, key domprefs.Key, value json.RawMessage) (domprefs.Preferences, error)
	Reset(ctx context.Context, profile string, key domprefs.Key) (domprefs.Preferences, error)
}

type watchlistUseCase interface {
	Add(ctx context.Context, profile, name string) (record.Company, error)
	Remove(ctx context.Context, profile, name string) error
	IsWatched(ctx context.Context, profile, name string) (bool, error)
}

type datasetUseCase interface {
	Load(ctx context.Context, trigger string) error
	Status() dataset.Status
}

// Client is the riskboard SDK entry point.
type Client struct {
	store     db.Store
	profile   string
	browseSvc browseUseCase
	searchSvc searchUseCase
	prefsSvc  preferencesUseCase
	watchSvc  watchlistUseCase
	datasets  datasetUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, opens its store and loads both CSV files.
// The provided context bounds the readiness check and the first load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		fetchTimeout: defaultFetchTimeout,
		profile:      defaultProfile,
		prefix:       defaultPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.newsSource == "" || cfg.companySource == "" {
		return nil, errors.New("riskboard: news and company sources required (use WithSources)")
	}
	if cfg.driver == "" {
		dir, err := defaultStoreDir()
		if err != nil {
			return nil, err
		}
		cfg.driver, cfg.path = "file", dir
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("riskboard: store not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c := wireClient(store, cfg, obs)
	if err := c.datasets.Load(ctx, dataset.TriggerStartup); err != nil {
		store.Close()
		return nil, fmt.Errorf("riskboard: load dataset: %w", err)
	}
	return c, nil
}

func defaultStoreDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("riskboard: locate cache dir: %w", err)
	}
	return filepath.Join(base, "riskboard"), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("riskboard: create redis store: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSqlite.NewStore(dbSqlite.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("riskboard: create sqlite store: %w", err)
		}
		return s, nil
	case "file":
		s, err := dbFile.NewStore(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("riskboard: create file store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("riskboard: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	// Engine logs stay quiet; SDK operations are reported through the observer.
	logger := zap.NewNop()

	data := dataset.NewStore(dataset.Config{
		NewsSource:    cfg.newsSource,
		CompanySource: cfg.companySource,
		FetchTimeout:  cfg.fetchTimeout,
	}, dataset.NewSourceFetcher(nil), logger)

	prefsSvc := prefsuc.New(prefsrepo.New(store, cfg.prefix))
	watchSvc := watchlistuc.New(watchlistrepo.New(store, cfg.prefix), data)

	return &Client{
		store:     store,
		profile:   cfg.profile,
		browseSvc: browse.New(data, prefsSvc, watchSvc),
		searchSvc: searchuc.New(data, prefsSvc, cfg.weights, logger),
		prefsSvc:  prefsSvc,
		watchSvc:  watchSvc,
		datasets:  data,
		healthSvc: healthuc.New(store, data),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Profile returns the profile whose preferences and watchlist the client uses.
func (c *Client) Profile() string { return c.profile }

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Reload re-reads both CSV files. On failure the previous snapshot stays.
func (c *Client) Reload(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("reload", start, err) }()

	if err = c.datasets.Load(ctx, dataset.TriggerManual); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

// Status describes the loaded snapshot and the last load attempt.
func (c *Client) Status() DatasetStatus { return c.datasets.Status() }
