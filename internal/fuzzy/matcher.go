package fuzzy

import (
	"unicode/utf8"

	"github.com/hyperjump/screener/internal/skills"
)

// DefaultThreshold is the minimum similarity that counts as a match.
const DefaultThreshold = 0.8

// Outcome records which mention satisfied a required skill and how closely.
type Outcome struct {
	Required   string  `json:"required"`
	Found      string  `json:"found"`
	Similarity float64 `json:"similarity"`
}

// MatchSkill finds the mention closest to required. A mention equal to
// required wins outright with similarity 1.0; otherwise the highest
// similarity wins, with ties going to the alphabetically first mention. The
// second return value is false when nothing reaches threshold.
func MatchSkill(required string, mentions skills.Mentions, threshold float64) (Outcome, bool) {
	if _, ok := mentions[required]; ok {
		return Outcome{Required: required, Found: required, Similarity: 1.0}, true
	}

	reqLen := utf8.RuneCountInString(required)
	best := Outcome{Required: required}
	found := false
	for mention := range mentions {
		// Skip mentions whose length alone rules them out
		if upperBound(reqLen, utf8.RuneCountInString(mention)) < threshold {
			continue
		}
		sim := Similarity(required, mention)
		if sim < threshold {
			continue
		}
		if !found || sim > best.Similarity || (sim == best.Similarity && mention < best.Found) {
			best.Found = mention
			best.Similarity = sim
			found = true
		}
	}
	return best, found
}
