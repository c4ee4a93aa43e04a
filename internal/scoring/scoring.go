// Package scoring turns per-skill match results into one weighted percentage.
package scoring

import (
	"math"

	"github.com/hyperjump/screener/internal/skills"
)

// Result is an overall score in [0, 100]. NoRequirements is set when the job
// had nothing to match, which scores 0 but is not a mismatch.
type Result struct {
	Score          float64
	NoRequirements bool
}

// Score returns 100 * matched weight / required weight, rounded to one
// decimal. Matched skills absent from required carry no weight.
func Score(required skills.Requirements, matched []string) Result {
	total := required.TotalWeight()
	if len(required) == 0 || total <= 0 {
		return Result{NoRequirements: true}
	}

	seen := make(map[string]struct{}, len(matched))
	var got float64
	for _, s := range matched {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		got += required[s]
	}

	score := Round1(100 * got / total)
	return Result{Score: math.Max(0, math.Min(100, score))}
}

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
