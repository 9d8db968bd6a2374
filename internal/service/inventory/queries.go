package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

// AllItems returns every item in the user's live kits.
func (s *Service) AllItems(ctx context.Context) ([]domain.ItemDetails, error) {
	return s.listForUser(ctx, domain.ItemFilter{})
}

// Expired returns items whose expiry date has passed.
func (s *Service) Expired(ctx context.Context) ([]domain.ItemDetails, error) {
	today := s.today()
	return s.listForUser(ctx, domain.ItemFilter{ExpiredAt: &today})
}

// Expiring returns items that expire within days from today, not yet expired.
// days <= 0 uses the configured default.
func (s *Service) Expiring(ctx context.Context, days int) ([]domain.ItemDetails, error) {
	if days <= 0 {
		days = s.opts.ExpiringDays
	}
	from := s.today()
	to := from.AddDate(0, 0, days)
	return s.listForUser(ctx, domain.ItemFilter{ExpiringFrom: &from, ExpiringTo: &to})
}

// LowStock returns items whose quantity is at or below the threshold.
func (s *Service) LowStock(ctx context.Context) ([]domain.ItemDetails, error) {
	threshold := s.opts.LowStockThreshold.String()
	return s.listForUser(ctx, domain.ItemFilter{QuantityAtMost: &threshold})
}

// Search matches medicine names case-insensitively.
func (s *Service) Search(ctx context.Context, query string) ([]domain.ItemDetails, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.ItemDetails{}, nil
	}
	return s.listForUser(ctx, domain.ItemFilter{NameContains: &query})
}

// ByCategory returns items whose medicine belongs to category.
func (s *Service) ByCategory(ctx context.Context, category domain.MedicineCategory) ([]domain.ItemDetails, error) {
	if !category.IsValid() {
		return nil, domain.NewValidationError("category", "invalid value")
	}
	return s.listForUser(ctx, domain.ItemFilter{Category: &category})
}

// ExpiryDigest returns expired and soon-expiring items of one user. It is
// used by the alerts loop, which sets the user in ctx.
func (s *Service) ExpiryDigest(ctx context.Context, days int) (expired, expiring []domain.ItemDetails, err error) {
	expired, err = s.Expired(ctx)
	if err != nil {
		return nil, nil, err
	}
	expiring, err = s.Expiring(ctx, days)
	if err != nil {
		return nil, nil, err
	}
	return expired, expiring, nil
}

func (s *Service) listForUser(ctx context.Context, filter domain.ItemFilter) ([]domain.ItemDetails, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if filter.Limit == 0 {
		filter.Limit = maxListed
	}
	items, err := s.items.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}
