package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the riskboard API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Data     DataConfig     `yaml:"data"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Search   SearchConfig   `yaml:"search"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DataConfig locates the two CSV files.
type DataConfig struct {
	NewsSource      string `yaml:"news_source"`    // path, file:// or http(s) URL
	CompanySource   string `yaml:"company_source"` // path, file:// or http(s) URL
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`
	Watch           bool   `yaml:"watch"` // reload local files on change
	DebounceMs      int    `yaml:"debounce_ms"`
}

// StorageConfig holds key-value storage settings.
type StorageConfig struct {
	Driver           string   `yaml:"driver"` // file, redis, sqlite (default: file)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // directory for file, database file for sqlite
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// DemoUserConfig is a built-in login.
type DemoUserConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys         []string         `yaml:"api_keys"`
	DemoUsers       []DemoUserConfig `yaml:"demo_users"`
	SessionTTLHours int              `yaml:"session_ttl_hours"`
}

// WeightsConfig holds relevance score multipliers.
type WeightsConfig struct {
	Company int `yaml:"company"`
	Title   int `yaml:"title"`
	Summary int `yaml:"summary"`
}

// SearchConfig holds relevance search settings.
type SearchConfig struct {
	Weights WeightsConfig `yaml:"weights"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// AnalysisConfig holds the chat completion provider settings.
// Analysis is disabled when APIKey is empty.
type AnalysisConfig struct {
	APIKey        string       `yaml:"api_key"`
	BaseURL       string       `yaml:"base_url"`
	Model         string       `yaml:"model"`
	MaxTokens     int          `yaml:"max_tokens"`
	Temperature   float32      `yaml:"temperature"`
	TimeoutSec    int          `yaml:"timeout_sec"`
	SystemPrompt  string       `yaml:"system_prompt"`
	CacheTTLHours int          `yaml:"cache_ttl_hours"`
	Budget        BudgetConfig `yaml:"budget"`
}

// Enabled reports whether a provider key is configured.
func (a AnalysisConfig) Enabled() bool { return a.APIKey != "" }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first when present.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, decodes it and applies defaults.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Data.NewsSource == "" {
		c.Data.NewsSource = "data/newslevel.csv"
	}
	if c.Data.CompanySource == "" {
		c.Data.CompanySource = "data/corplevel.csv"
	}
	if c.Data.FetchTimeoutSec <= 0 {
		c.Data.FetchTimeoutSec = 30
	}
	if c.Data.DebounceMs <= 0 {
		c.Data.DebounceMs = 500
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "file"
	}
	if c.Storage.Path == "" {
		switch c.Storage.Driver {
		case "sqlite":
			c.Storage.Path = "var/riskboard.db"
		case "file":
			c.Storage.Path = "var/kv"
		}
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "riskboard"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Auth.SessionTTLHours <= 0 {
		c.Auth.SessionTTLHours = 24
	}
	if c.Search.Weights.Company <= 0 {
		c.Search.Weights.Company = 4
	}
	if c.Search.Weights.Title <= 0 {
		c.Search.Weights.Title = 3
	}
	if c.Search.Weights.Summary <= 0 {
		c.Search.Weights.Summary = 2
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = "gpt-4o-mini"
	}
	if c.Analysis.MaxTokens <= 0 {
		c.Analysis.MaxTokens = 800
	}
	if c.Analysis.TimeoutSec <= 0 {
		c.Analysis.TimeoutSec = 60
	}
	if c.Analysis.CacheTTLHours <= 0 {
		c.Analysis.CacheTTLHours = 24
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Storage.Driver {
	case "file", "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case "redis":
		if len(c.Storage.Addrs) == 0 {
			return fmt.Errorf("storage.addrs is required for driver \"redis\"")
		}
	default:
		return fmt.Errorf("storage.driver must be \"file\", \"redis\" or \"sqlite\", got %q", c.Storage.Driver)
	}
	for i, u := range c.Auth.DemoUsers {
		if u.Email == "" || u.Password == "" {
			return fmt.Errorf("auth.demo_users[%d] requires email and password", i)
		}
	}
	switch c.Analysis.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("analysis.budget.action must be \"warn\" or \"reject\", got %q", c.Analysis.Budget.Action)
	}
	if c.Analysis.Temperature < 0 || c.Analysis.Temperature > 2 {
		return fmt.Errorf("analysis.temperature must be between 0 and 2, got %v", c.Analysis.Temperature)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
