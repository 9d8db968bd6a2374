package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
telegram:
  token: "123:abc"
  admin_ids: "1001, 1002"
  poll_timeout: "10s"
  workers: 4

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 7
  min_conns: 1

session:
  backend: "postgres"
  ttl: "30m"
  share_request_ttl: "12h"

catalog:
  similarity_threshold: 75
  similarity_limit: 5

inventory:
  page_size: 8
  expiring_days: 14
  low_stock_threshold: "2.5"

alerts:
  enabled: false

health:
  port: 9090

rate_limit:
  per_minute: 20

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Telegram
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("telegram.token = %q", cfg.Telegram.Token)
	}
	if len(cfg.Telegram.AdminIDs) != 2 || cfg.Telegram.AdminIDs[0] != 1001 || cfg.Telegram.AdminIDs[1] != 1002 {
		t.Errorf("telegram.admin_ids = %v, want [1001 1002]", cfg.Telegram.AdminIDs)
	}
	if cfg.Telegram.PollTimeout != 10*time.Second {
		t.Errorf("telegram.poll_timeout = %v, want 10s", cfg.Telegram.PollTimeout)
	}
	if cfg.Telegram.Workers != 4 {
		t.Errorf("telegram.workers = %d, want 4", cfg.Telegram.Workers)
	}

	// Database
	if cfg.Database.MaxConns != 7 {
		t.Errorf("database.max_conns = %d, want 7", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("database.max_conn_lifetime = %v, want 1h (default)", cfg.Database.MaxConnLifetime)
	}

	// Session
	if cfg.Session.Backend != SessionBackendPostgres {
		t.Errorf("session.backend = %q, want postgres", cfg.Session.Backend)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("session.ttl = %v, want 30m", cfg.Session.TTL)
	}
	if cfg.Session.ShareRequestTTL != 12*time.Hour {
		t.Errorf("session.share_request_ttl = %v, want 12h", cfg.Session.ShareRequestTTL)
	}

	// Catalog
	if cfg.Catalog.SimilarityThreshold != 75 {
		t.Errorf("catalog.similarity_threshold = %v, want 75", cfg.Catalog.SimilarityThreshold)
	}
	if cfg.Catalog.SimilarityLimit != 5 {
		t.Errorf("catalog.similarity_limit = %d, want 5", cfg.Catalog.SimilarityLimit)
	}

	// Inventory
	if cfg.Inventory.PageSize != 8 {
		t.Errorf("inventory.page_size = %d, want 8", cfg.Inventory.PageSize)
	}
	if !cfg.Inventory.LowStockThreshold.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("inventory.low_stock_threshold = %s, want 2.5", cfg.Inventory.LowStockThreshold)
	}

	// Alerts
	if cfg.Alerts.Enabled {
		t.Error("alerts.enabled should be false")
	}

	// Health
	if cfg.Health.Port != 9090 {
		t.Errorf("health.port = %d, want 9090", cfg.Health.Port)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("INVENTORY_PAGE_SIZE", "3")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Inventory.PageSize != 3 {
		t.Errorf("inventory.page_size = %d, want 3 (ENV override)", cfg.Inventory.PageSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Session.Backend != SessionBackendRedis {
		t.Errorf("session.backend = %q, want redis (default)", cfg.Session.Backend)
	}
	if cfg.Catalog.SimilarityThreshold != 60 {
		t.Errorf("catalog.similarity_threshold = %v, want 60 (default)", cfg.Catalog.SimilarityThreshold)
	}
	if cfg.Catalog.SimilarityLimit != 3 {
		t.Errorf("catalog.similarity_limit = %d, want 3 (default)", cfg.Catalog.SimilarityLimit)
	}
	if cfg.Inventory.ExpiringDays != 30 {
		t.Errorf("inventory.expiring_days = %d, want 30 (default)", cfg.Inventory.ExpiringDays)
	}
	if !cfg.Inventory.LowStockThreshold.Equal(decimal.NewFromInt(5)) {
		t.Errorf("inventory.low_stock_threshold = %s, want 5 (default)", cfg.Inventory.LowStockThreshold)
	}
	if cfg.Alerts.Interval != 24*time.Hour {
		t.Errorf("alerts.interval = %v, want 24h (default)", cfg.Alerts.Interval)
	}
	if cfg.Telegram.AdminIDs != nil {
		t.Errorf("telegram.admin_ids = %v, want nil", cfg.Telegram.AdminIDs)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected error when TELEGRAM_TOKEN is not set")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "blank token", mutate: func(c *Config) { c.Telegram.Token = "  " }, wantErr: true},
		{name: "bad admin id", mutate: func(c *Config) { c.Telegram.AdminIDsRaw = "1,abc" }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Telegram.Workers = 0 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "memcached" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: true},
		{name: "zero share ttl", mutate: func(c *Config) { c.Session.ShareRequestTTL = 0 }, wantErr: true},
		{name: "threshold below 0", mutate: func(c *Config) { c.Catalog.SimilarityThreshold = -1 }, wantErr: true},
		{name: "threshold above 100", mutate: func(c *Config) { c.Catalog.SimilarityThreshold = 101 }, wantErr: true},
		{name: "threshold bounds", mutate: func(c *Config) { c.Catalog.SimilarityThreshold = 100 }},
		{name: "zero limit", mutate: func(c *Config) { c.Catalog.SimilarityLimit = 0 }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.Inventory.PageSize = 0 }, wantErr: true},
		{name: "bad low stock", mutate: func(c *Config) { c.Inventory.LowStockThresholdRaw = "five" }, wantErr: true},
		{name: "negative low stock", mutate: func(c *Config) { c.Inventory.LowStockThresholdRaw = "-1" }, wantErr: true},
		{name: "alerts without interval", mutate: func(c *Config) { c.Alerts.Interval = 0 }, wantErr: true},
		{name: "disabled alerts ignore interval", mutate: func(c *Config) {
			c.Alerts.Enabled = false
			c.Alerts.Interval = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseAdminIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    []int64
		wantErr bool
	}{
		{raw: "", want: nil},
		{raw: "  ", want: nil},
		{raw: "42", want: []int64{42}},
		{raw: "1, 2,,3", want: []int64{1, 2, 3}},
		{raw: "9223372036854775807", want: []int64{9223372036854775807}},
		{raw: "1,x", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAdminIDs(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAdminIDs(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseAdminIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseAdminIDs(%q)[%d] = %d, want %d", tt.raw, i, got[i], tt.want[i])
			}
		}
	}
}

func validConfig() Config {
	return Config{
		Telegram: TelegramConfig{Token: "123:abc", Workers: 2},
		Database: DatabaseConfig{DSN: "postgres://u:p@localhost:5432/testdb"},
		Session: SessionConfig{
			Backend:         SessionBackendRedis,
			TTL:             time.Hour,
			ShareRequestTTL: 24 * time.Hour,
		},
		Catalog: CatalogConfig{SimilarityThreshold: 60, SimilarityLimit: 3},
		Inventory: InventoryConfig{
			PageSize:             5,
			ExpiringDays:         30,
			LowStockThresholdRaw: "5",
		},
		Alerts: AlertsConfig{Enabled: true, Interval: 24 * time.Hour, ExpiringDays: 7},
	}
}
