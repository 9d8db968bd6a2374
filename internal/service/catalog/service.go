// Package catalog manages the shared medicine catalog: lookup of similar
// verified entries, get-or-create by (name, type, dosage) and the admin
// verification workflow.
package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/domain"
)

const (
	DefaultThreshold = 60
	DefaultLimit     = 3
	// candidatePool caps how many verified entries are scored per lookup.
	candidatePool = 5000
)

type medicineRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Medicine, error)
	List(ctx context.Context, filter domain.MedicineFilter) ([]domain.Medicine, error)
	FindByKey(ctx context.Context, name string, typ domain.MedicineType, dosage *string) (*domain.Medicine, error)
	Create(ctx context.Context, m *domain.Medicine) (*domain.Medicine, error)
	Update(ctx context.Context, id int64, upd domain.MedicineUpdate) (*domain.Medicine, error)
}

type allowList interface {
	IsVerified(name string) bool
}

// Options tunes similar-entry suggestions. Threshold is used as given, so a
// zero threshold keeps every scored candidate.
type Options struct {
	Threshold float64
	Limit     int
}

// Service implements catalog operations.
type Service struct {
	log       *slog.Logger
	medicines medicineRepo
	allow     allowList
	opts      Options
}

// NewService creates a new catalog Service.
func NewService(logger *slog.Logger, medicines medicineRepo, allow allowList, opts Options) *Service {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	return &Service{
		log:       logger.With("service", "catalog"),
		medicines: medicines,
		allow:     allow,
		opts:      opts,
	}
}

// Get returns a catalog entry by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

// List returns catalog entries matching filter.
func (s *Service) List(ctx context.Context, filter domain.MedicineFilter) ([]domain.Medicine, error) {
	return s.medicines.List(ctx, filter)
}
