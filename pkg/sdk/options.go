package riskboard

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	newsSource    string
	companySource string
	fetchTimeout  time.Duration

	driver   string // "file", "sqlite" or "redis"
	addrs    []string
	password string
	path     string
	prefix   string

	profile string
	weights Weights

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithSources sets the news and company CSV locations. Each may be a local
// path, a file:// URL or an http(s) URL.
func WithSources(news, companies string) Option {
	return optionFunc(func(c *clientConfig) {
		c.newsSource = news
		c.companySource = companies
	})
}

// WithFetchTimeout bounds a single dataset load. Default: 30s.
func WithFetchTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.fetchTimeout = d
	})
}

// WithRedis keeps preferences and watchlists in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite keeps preferences and watchlists in a SQLite database file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	})
}

// WithFileStore keeps preferences and watchlists as files under dir.
// This is the default, under the user cache directory.
func WithFileStore(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "file"
		c.path = dir
	})
}

// WithKeyPrefix namespaces stored keys. Default: "riskboard".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.prefix = prefix
	})
}

// WithProfile selects whose preferences and watchlist the client reads.
func WithProfile(profile string) Option {
	return optionFunc(func(c *clientConfig) {
		c.profile = profile
	})
}

// WithWeights overrides the search scoring weights. Zero weights keep
// the defaults (company 4, title 3, summary 2).
func WithWeights(w Weights) Option {
	return optionFunc(func(c *clientConfig) {
		c.weights = w
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
