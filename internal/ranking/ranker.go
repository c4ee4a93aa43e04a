// Package ranking orders match results deterministically.
package ranking

import (
	"sort"

	"github.com/hyperjump/screener/internal/models"
)

// Rank returns copies of results ordered by score descending. Equal scores
// are ordered by filename, then by ID, so the output never depends on input
// order. Rank numbers are assigned from 1. The input slice is not modified.
func Rank(results []*models.MatchResult) []*models.MatchResult {
	ranked := make([]*models.MatchResult, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		c := *r
		ranked = append(ranked, &c)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func less(a, b *models.MatchResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Filename != b.Filename {
		return a.Filename < b.Filename
	}
	return a.ID < b.ID
}

// FilterByMinScore keeps results scoring at least minScore. Ranks are kept.
func FilterByMinScore(results []*models.MatchResult, minScore float64) []*models.MatchResult {
	if minScore <= 0 {
		return results
	}
	filtered := make([]*models.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= minScore {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// TopN returns at most n leading results. n <= 0 returns all of them.
func TopN(results []*models.MatchResult, n int) []*models.MatchResult {
	if n <= 0 || n >= len(results) {
		return results
	}
	return results[:n]
}

// Paginate returns the window [offset, offset+limit) clamped to the slice.
func Paginate(results []*models.MatchResult, offset, limit int) []*models.MatchResult {
	if offset < 0 {
		offset = 0
	}
	start := offset
	if start > len(results) {
		start = len(results)
	}
	end := len(results)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return results[start:end]
}
