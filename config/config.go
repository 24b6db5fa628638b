package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	StockWatch StockWatchConfig `yaml:"stock_watch"`
	Client     ClientConfig     `yaml:"client"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Push is optional; low-stock alerts are skipped when the keys are empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
}

// AuthConfig holds the token signing settings.
type AuthConfig struct {
	JWTSecret        string        `yaml:"jwt_secret"`
	TokenExpiryHours int           `yaml:"token_expiry_hours"`
	TokenExpiry      time.Duration `yaml:"-"`
}

// StockWatchConfig controls the periodic low-stock scan.
type StockWatchConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	Threshold       float64       `yaml:"threshold"`
}

// ClientConfig holds the console's settings.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	SessionPath    string        `yaml:"session_path"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	HTTPProxy      string        `yaml:"http_proxy"`
}

// DatabaseConfig holds the database connection configuration.
// DSNs starting with "sqlite:" open a SQLite file, anything else is handed to postgres.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault is Load, falling back to Default when path does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadDotEnv loads .env files into the environment, .env by default. Missing
// files are skipped; unreadable or malformed ones are reported.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides secrets and endpoints from the environment, typically populated from .env.
func (cfg *Config) ApplyEnv() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"JWT_SECRET", &cfg.Auth.JWTSecret},
		{"DATABASE_DSN", &cfg.Database.DSN},
		{"VAPID_PUBLIC_KEY", &cfg.Push.PublicKey},
		{"VAPID_PRIVATE_KEY", &cfg.Push.PrivateKey},
		{"HOSTEL_API_URL", &cfg.Client.BaseURL},
		{"HOSTEL_SESSION", &cfg.Client.SessionPath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// Default returns a configuration with every default applied, for use when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "sqlite:hostel.sqlite3"
	}

	if cfg.Auth.TokenExpiryHours <= 0 {
		cfg.Auth.TokenExpiryHours = 7 * 24
	}
	cfg.Auth.TokenExpiry = time.Duration(cfg.Auth.TokenExpiryHours) * time.Hour

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.StockWatch.IntervalSeconds <= 0 {
		cfg.StockWatch.IntervalSeconds = 300
	}
	cfg.StockWatch.Interval = time.Duration(cfg.StockWatch.IntervalSeconds) * time.Second
	if cfg.StockWatch.Threshold <= 0 {
		cfg.StockWatch.Threshold = 10
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:8080"
	}
	if cfg.Client.TimeoutSeconds < 0 {
		cfg.Client.TimeoutSeconds = 0
	}
	cfg.Client.Timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
}
