// Package inventory manages medicine kits and the items stored in them.
// Every operation is scoped to the kits the current user is a member of.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/domain"
)

const (
	DefaultPageSize     = 5
	DefaultExpiringDays = 30
	maxListed           = 200
)

type kitRepo interface {
	ListByUser(ctx context.Context, userID int64, deleted bool) ([]domain.Kit, error)
	GetForUser(ctx context.Context, userID, kitID int64) (*domain.Kit, error)
	Create(ctx context.Context, name string, description *string) (*domain.Kit, error)
	Update(ctx context.Context, kitID int64, upd domain.KitUpdate) (*domain.Kit, error)
	AddMember(ctx context.Context, kitID, userID int64) error
	IsMember(ctx context.Context, kitID, userID int64) (bool, error)
}

type itemRepo interface {
	GetByID(ctx context.Context, itemID int64) (*domain.ItemDetails, error)
	ListByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error)
	CountByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) (int, error)
	ListByUser(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error)
	Create(ctx context.Context, item domain.NewItem) (*domain.Item, error)
	Update(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error)
	AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error)
	Delete(ctx context.Context, itemID int64) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Options tunes listings.
type Options struct {
	PageSize          int
	ExpiringDays      int
	LowStockThreshold decimal.Decimal
}

// Service implements kit and item operations.
type Service struct {
	log   *slog.Logger
	kits  kitRepo
	items itemRepo
	tx    txManager
	opts  Options
	now   func() time.Time
}

// NewService creates a new inventory Service.
func NewService(logger *slog.Logger, kits kitRepo, items itemRepo, tx txManager, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.ExpiringDays <= 0 {
		opts.ExpiringDays = DefaultExpiringDays
	}
	return &Service{
		log:   logger.With("service", "inventory"),
		kits:  kits,
		items: items,
		tx:    tx,
		opts:  opts,
		now:   time.Now,
	}
}

// ExpiringDays returns the configured look-ahead of Expiring.
func (s *Service) ExpiringDays() int { return s.opts.ExpiringDays }

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
