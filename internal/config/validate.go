package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return fmt.Errorf("telegram.token is required")
	}
	ids, err := ParseAdminIDs(c.Telegram.AdminIDsRaw)
	if err != nil {
		return fmt.Errorf("telegram.admin_ids: %w", err)
	}
	c.Telegram.AdminIDs = ids
	if c.Telegram.Workers < 1 {
		return fmt.Errorf("telegram.workers must be >= 1 (got %d)", c.Telegram.Workers)
	}

	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if c.Catalog.SimilarityThreshold < 0 || c.Catalog.SimilarityThreshold > 100 {
		return fmt.Errorf("catalog.similarity_threshold must be in [0, 100] (got %v)", c.Catalog.SimilarityThreshold)
	}
	if c.Catalog.SimilarityLimit < 1 {
		return fmt.Errorf("catalog.similarity_limit must be >= 1 (got %d)", c.Catalog.SimilarityLimit)
	}

	if err := c.Inventory.validate(); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}

	if c.Alerts.Enabled && c.Alerts.Interval <= 0 {
		return fmt.Errorf("alerts.interval must be > 0 (got %s)", c.Alerts.Interval)
	}

	return nil
}

func (s *SessionConfig) validate() error {
	switch s.Backend {
	case SessionBackendRedis, SessionBackendPostgres:
	default:
		return fmt.Errorf("backend must be %q or %q (got %q)", SessionBackendRedis, SessionBackendPostgres, s.Backend)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("ttl must be > 0 (got %s)", s.TTL)
	}
	if s.ShareRequestTTL <= 0 {
		return fmt.Errorf("share_request_ttl must be > 0 (got %s)", s.ShareRequestTTL)
	}
	return nil
}

func (i *InventoryConfig) validate() error {
	if i.PageSize < 1 {
		return fmt.Errorf("page_size must be >= 1 (got %d)", i.PageSize)
	}
	if i.ExpiringDays < 1 {
		return fmt.Errorf("expiring_days must be >= 1 (got %d)", i.ExpiringDays)
	}
	threshold, err := decimal.NewFromString(strings.TrimSpace(i.LowStockThresholdRaw))
	if err != nil {
		return fmt.Errorf("low_stock_threshold: %w", err)
	}
	if threshold.IsNegative() {
		return fmt.Errorf("low_stock_threshold must be >= 0 (got %s)", threshold)
	}
	i.LowStockThreshold = threshold
	return nil
}

// ParseAdminIDs parses a comma-separated list of Telegram user ids
// (e.g. "1001,1002"). An empty string returns a nil slice.
func ParseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", p, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
