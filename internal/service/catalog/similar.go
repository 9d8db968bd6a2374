package catalog

import (
	"context"
	"fmt"

	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/similarity"
)

// FindSimilar returns verified entries whose names resemble query, best first.
// Pending and rejected entries are never suggested.
func (s *Service) FindSimilar(ctx context.Context, query string) ([]similarity.Match[domain.Medicine], error) {
	verified := domain.VerificationVerified
	entries, err := s.medicines.List(ctx, domain.MedicineFilter{
		Verification: &verified,
		Limit:        candidatePool,
	})
	if err != nil {
		return nil, fmt.Errorf("list verified medicines: %w", err)
	}

	candidates := make([]similarity.Candidate[domain.Medicine], 0, len(entries))
	for _, m := range entries {
		if !m.IsVerified() {
			continue
		}
		candidates = append(candidates, similarity.Candidate[domain.Medicine]{Name: m.Name, Value: m})
	}

	return similarity.FindSimilar(query, candidates, s.opts.Limit, s.opts.Threshold), nil
}
