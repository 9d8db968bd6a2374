package config

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config is the root application configuration.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Database  DatabaseConfig  `yaml:"database"`
	Session   SessionConfig   `yaml:"session"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Inventory InventoryConfig `yaml:"inventory"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Health    HealthConfig    `yaml:"health"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token       string        `yaml:"token"        env:"TELEGRAM_TOKEN"        env-required:"true"`
	AdminIDsRaw string        `yaml:"admin_ids"    env:"TELEGRAM_ADMIN_IDS"`
	PollTimeout time.Duration `yaml:"poll_timeout" env:"TELEGRAM_POLL_TIMEOUT" env-default:"30s"`
	Workers     int           `yaml:"workers"      env:"TELEGRAM_WORKERS"      env-default:"8"`
	Debug       bool          `yaml:"debug"        env:"TELEGRAM_DEBUG"        env-default:"false"`

	// AdminIDs is parsed from AdminIDsRaw during validation.
	AdminIDs []int64 `yaml:"-" env:"-"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Session store backends.
const (
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// SessionConfig selects and tunes the dialogue session store.
type SessionConfig struct {
	Backend         string        `yaml:"backend"           env:"SESSION_BACKEND"           env-default:"redis"`
	TTL             time.Duration `yaml:"ttl"               env:"SESSION_TTL"               env-default:"1h"`
	ShareRequestTTL time.Duration `yaml:"share_request_ttl" env:"SESSION_SHARE_REQUEST_TTL" env-default:"24h"`
	RedisAddr       string        `yaml:"redis_addr"        env:"REDIS_ADDR"                env-default:"localhost:6379"`
	RedisPassword   string        `yaml:"redis_password"    env:"REDIS_PASSWORD"`
	RedisDB         int           `yaml:"redis_db"          env:"REDIS_DB"                  env-default:"0"`
}

// CatalogConfig tunes similar-entry suggestions.
type CatalogConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold" env:"CATALOG_SIMILARITY_THRESHOLD" env-default:"60"`
	SimilarityLimit     int     `yaml:"similarity_limit"     env:"CATALOG_SIMILARITY_LIMIT"     env-default:"3"`
	// AllowListPath overrides the embedded allow-list of trusted names.
	AllowListPath string `yaml:"allowlist_path" env:"CATALOG_ALLOWLIST_PATH"`
}

// InventoryConfig holds listing settings.
type InventoryConfig struct {
	PageSize             int    `yaml:"page_size"           env:"INVENTORY_PAGE_SIZE"           env-default:"5"`
	ExpiringDays         int    `yaml:"expiring_days"       env:"INVENTORY_EXPIRING_DAYS"       env-default:"30"`
	LowStockThresholdRaw string `yaml:"low_stock_threshold" env:"INVENTORY_LOW_STOCK_THRESHOLD" env-default:"5"`

	// LowStockThreshold is parsed from LowStockThresholdRaw during validation.
	LowStockThreshold decimal.Decimal `yaml:"-" env:"-"`
}

// AlertsConfig controls the periodic expiry digest.
type AlertsConfig struct {
	Enabled      bool          `yaml:"enabled"       env:"ALERTS_ENABLED"       env-default:"true"`
	Interval     time.Duration `yaml:"interval"      env:"ALERTS_INTERVAL"      env-default:"24h"`
	ExpiringDays int           `yaml:"expiring_days" env:"ALERTS_EXPIRING_DAYS" env-default:"7"`
}

// HealthConfig holds probe server settings.
type HealthConfig struct {
	Enabled         bool          `yaml:"enabled"          env:"HEALTH_ENABLED"          env-default:"true"`
	Host            string        `yaml:"host"             env:"HEALTH_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"HEALTH_PORT"             env-default:"8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HEALTH_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// RateLimitConfig caps updates per user.
type RateLimitConfig struct {
	PerMinute       int           `yaml:"per_minute"       env:"RATE_LIMIT_PER_MINUTE"       env-default:"60"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
