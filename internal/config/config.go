// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Quota     QuotaConfig     `yaml:"quota"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns host:port for the listener.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig defines the catalog API client settings.
type UpstreamConfig struct {
	BaseURL      string          `yaml:"base_url"`
	ServiceToken string          `yaml:"service_token"`
	Login        LoginConfig     `yaml:"login"`
	Timeout      time.Duration   `yaml:"timeout"`
	PageSize     int             `yaml:"page_size"`
	MaxPages     int             `yaml:"max_pages"`
	MaxRecords   int             `yaml:"max_records"`
	Concurrency  int             `yaml:"concurrency"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// LoginConfig holds service account credentials exchanged for a token at
// /auth/login. Used only when service_token is empty.
type LoginConfig struct {
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Enabled reports whether login credentials were configured.
func (l *LoginConfig) Enabled() bool {
	return l.Email != "" || l.Password != ""
}

// RateLimitConfig defines upstream API rate limiting settings. A zero
// daily_limit means unlimited.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// CatalogConfig tunes the directory snapshot and comparison rules.
type CatalogConfig struct {
	TTL              time.Duration `yaml:"ttl"`
	CompetitorLimit  int           `yaml:"competitor_limit"`
	CompetitorWindow int64         `yaml:"competitor_window"`
	CompareMax       int           `yaml:"compare_max"`
}

// QuotaConfig defines the anonymous search allowance.
type QuotaConfig struct {
	SearchLimit int `yaml:"search_limit"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// TelemetryConfig defines the OTLP exporter settings.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Endpoint       string        `yaml:"endpoint"`
	Insecure       bool          `yaml:"insecure"`
	ServiceName    string        `yaml:"service_name"`
	SampleRatio    float64       `yaml:"sample_ratio"`
	MetricInterval time.Duration `yaml:"metric_interval"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyUpstreamDefaults(&cfg.Upstream)
	applyDatabaseDefaults(&cfg.Database)
	applyCatalogDefaults(&cfg.Catalog)
	if cfg.Quota.SearchLimit == 0 {
		cfg.Quota.SearchLimit = 4
	}
	if cfg.Schedule.RefreshInterval == 0 {
		cfg.Schedule.RefreshInterval = 30 * time.Minute
	}
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
	if s.ShutdownTimeout == 0 {
		s.ShutdownTimeout = 10 * time.Second
	}
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if u.BaseURL == "" {
		u.BaseURL = "https://compare.akshayy.site"
	}
	if u.Timeout == 0 {
		u.Timeout = 30 * time.Second
	}
	if u.PageSize == 0 {
		u.PageSize = 50
	}
	if u.MaxPages == 0 {
		u.MaxPages = 40
	}
	if u.Concurrency == 0 {
		u.Concurrency = 4
	}
	if u.Login.TokenTTL == 0 {
		u.Login.TokenTTL = time.Hour
	}
	if u.RateLimit.PerSecond == 0 {
		u.RateLimit.PerSecond = 5.0
	}
	if u.RateLimit.Burst == 0 {
		u.RateLimit.Burst = 10
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.TTL == 0 {
		c.TTL = 15 * time.Minute
	}
	if c.CompetitorLimit == 0 {
		c.CompetitorLimit = 3
	}
	if c.CompetitorWindow == 0 {
		c.CompetitorWindow = 20000
	}
	if c.CompareMax == 0 {
		c.CompareMax = 5
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "device-compare"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
	if t.MetricInterval == 0 {
		t.MetricInterval = time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, errors.New("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, errors.New("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, errors.New("database.user is required"))
	}

	if u, err := url.Parse(cfg.Upstream.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.base_url must be an http(s) URL (got %q)", cfg.Upstream.BaseURL))
	}
	if l := cfg.Upstream.Login; l.Enabled() && (l.Email == "" || l.Password == "") {
		errs = append(errs, errors.New("upstream.login requires both email and password"))
	}
	if cfg.Upstream.PageSize < 0 || cfg.Upstream.MaxPages < 0 || cfg.Upstream.MaxRecords < 0 {
		errs = append(errs, errors.New("upstream page_size, max_pages and max_records must not be negative"))
	}
	if cfg.Upstream.RateLimit.DailyLimit < 0 {
		errs = append(errs, errors.New("upstream.rate_limit.daily_limit must not be negative"))
	}

	if cfg.Catalog.TTL < 0 {
		errs = append(errs, errors.New("catalog.ttl must not be negative"))
	}
	if cfg.Catalog.CompareMax < 1 {
		errs = append(errs, errors.New("catalog.compare_max must be at least 1"))
	}
	if cfg.Quota.SearchLimit < 0 {
		errs = append(errs, errors.New("quota.search_limit must not be negative"))
	}
	if cfg.Schedule.RefreshInterval < 0 {
		errs = append(errs, errors.New("schedule.refresh_interval must not be negative"))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0, 1] (got %v)", cfg.Telemetry.SampleRatio))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
