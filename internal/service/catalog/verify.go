package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/medkit/internal/domain"
)

// Pending returns entries no admin has reviewed yet, oldest first.
func (s *Service) Pending(ctx context.Context, limit int) ([]domain.Medicine, error) {
	pending := domain.VerificationPending
	return s.medicines.List(ctx, domain.MedicineFilter{Verification: &pending, Limit: limit})
}

// Verify marks an entry as checked and verified.
func (s *Service) Verify(ctx context.Context, id int64) (*domain.Medicine, error) {
	return s.review(ctx, id, true)
}

// Reject marks an entry as checked but not verified.
func (s *Service) Reject(ctx context.Context, id int64) (*domain.Medicine, error) {
	return s.review(ctx, id, false)
}

func (s *Service) review(ctx context.Context, id int64, approve bool) (*domain.Medicine, error) {
	m, err := s.medicines.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get medicine: %w", err)
	}

	next := m.Verification.Reject()
	if approve {
		next = m.Verification.Verify()
	}

	updated, err := s.medicines.Update(ctx, id, domain.MedicineUpdate{Verification: &next})
	if err != nil {
		return nil, fmt.Errorf("update medicine verification: %w", err)
	}

	s.log.InfoContext(ctx, "medicine reviewed",
		slog.Int64("medicine_id", id),
		slog.String("from", m.Verification.String()),
		slog.String("to", next.String()),
	)
	return updated, nil
}
