package inventory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/validate"
)

// Page is one page of a kit's items.
type Page struct {
	Kit   domain.Kit
	Items []domain.ItemDetails
	Page  int
	Pages int
}

// KitItems returns page number page (0-based) of a kit's items. Out of range
// pages are clamped.
func (s *Service) KitItems(ctx context.Context, kitID int64, page int) (*Page, error) {
	kit, err := s.Kit(ctx, kitID)
	if err != nil {
		return nil, err
	}

	total, err := s.items.CountByKit(ctx, kitID, domain.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	pages := max(1, (total+s.opts.PageSize-1)/s.opts.PageSize)
	page = min(max(page, 0), pages-1)

	items, err := s.items.ListByKit(ctx, kitID, domain.ItemFilter{
		Limit:  s.opts.PageSize,
		Offset: page * s.opts.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return &Page{Kit: *kit, Items: items, Page: page, Pages: pages}, nil
}

// Item returns an item from one of the user's live kits.
func (s *Service) Item(ctx context.Context, itemID int64) (*domain.ItemDetails, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if _, err := s.Kit(ctx, item.KitID); err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem stores a new item in a live kit of the user.
func (s *Service) CreateItem(ctx context.Context, in domain.NewItem) (*domain.Item, error) {
	if _, err := s.Kit(ctx, in.KitID); err != nil {
		return nil, err
	}
	if in.Quantity.LessThan(validate.MinQuantity) || in.Quantity.GreaterThan(validate.MaxQuantity) {
		return nil, domain.NewValidationError("quantity", "out of range")
	}
	if _, err := validate.Unit(in.Unit); err != nil {
		return nil, domain.NewValidationError("unit", err.Error())
	}

	item, err := s.items.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.log.InfoContext(ctx, "item created",
		slog.Int64("item_id", item.ID),
		slog.Int64("kit_id", item.KitID),
		slog.Int64("medicine_id", item.MedicineID),
	)
	return item, nil
}

// UpdateItem applies a partial update.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error) {
	if upd.IsEmpty() {
		return nil, domain.NewValidationError("update", "no fields to update")
	}
	if upd.Quantity != nil && (upd.Quantity.IsNegative() || upd.Quantity.GreaterThan(validate.MaxQuantity)) {
		return nil, domain.NewValidationError("quantity", "out of range")
	}
	if _, err := s.Item(ctx, itemID); err != nil {
		return nil, err
	}

	item, err := s.items.Update(ctx, itemID, upd)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.log.InfoContext(ctx, "item updated", slog.Int64("item_id", itemID))
	return item, nil
}

// AdjustQuantity adds delta to the item's quantity. The result never drops
// below zero.
func (s *Service) AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error) {
	if _, err := s.Item(ctx, itemID); err != nil {
		return nil, err
	}
	item, err := s.items.AdjustQuantity(ctx, itemID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item. It reports false if the item was already gone.
func (s *Service) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	if _, err := s.Item(ctx, itemID); err != nil {
		return false, err
	}
	ok, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	if ok {
		s.log.InfoContext(ctx, "item deleted", slog.Int64("item_id", itemID))
	}
	return ok, nil
}
