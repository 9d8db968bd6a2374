package similarity

import "sort"

// Candidate is one catalog entry offered for matching.
type Candidate[T any] struct {
	Name  string
	Value T
}

// Match is a candidate that scored at or above the threshold.
type Match[T any] struct {
	Name  string
	Value T
	Score float64
}

// FindSimilar scores every candidate against query, keeps the best limit
// entries and drops those scoring below threshold. Equal scores keep the
// candidates' original order. An empty candidate set yields an empty result.
func FindSimilar[T any](query string, candidates []Candidate[T], limit int, threshold float64) []Match[T] {
	if limit <= 0 || len(candidates) == 0 {
		return []Match[T]{}
	}

	scored := make([]Match[T], len(candidates))
	for i, c := range candidates {
		scored[i] = Match[T]{Name: c.Name, Value: c.Value, Score: WeightedRatio(query, c.Name)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	out := make([]Match[T], 0, len(scored))
	for _, m := range scored {
		if m.Score >= threshold {
			out = append(out, m)
		}
	}
	return out
}
