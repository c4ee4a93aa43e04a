package skills

import (
	"sort"
	"strings"

	"github.com/hyperjump/screener/internal/textnorm"
	"github.com/hyperjump/screener/internal/vocabulary"
)

// Requirements maps each required skill to its relative importance.
type Requirements map[string]float64

// Skills returns the required skills in ascending order.
func (r Requirements) Skills() []string {
	names := make([]string, 0, len(r))
	for n := range r {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// TotalWeight sums all weights.
func (r Requirements) TotalWeight() float64 {
	var total float64
	for _, w := range r {
		total += w
	}
	return total
}

// MaxTokens returns the token length of the longest required skill name.
func (r Requirements) MaxTokens() int {
	longest := 0
	for name := range r {
		if n := len(strings.Fields(name)); n > longest {
			longest = n
		}
	}
	return longest
}

// Outside returns the requirements whose skill is not a canonical vocabulary
// name. Only these are matched against raw text n-grams.
func (r Requirements) Outside(vocab *vocabulary.Vocabulary) Requirements {
	out := make(Requirements)
	for name, w := range r {
		if !vocab.Has(name) {
			out[name] = w
		}
	}
	return out
}

// FromDescription weights each vocabulary skill found in a job description by
// its occurrence count.
func FromDescription(description string, vocab *vocabulary.Vocabulary) Requirements {
	req := make(Requirements)
	for skill, n := range Extract(textnorm.Normalize(description), vocab) {
		if n < 1 {
			n = 1
		}
		req[skill] = float64(n)
	}
	return req
}

// FromKeywords treats each keyword as one required skill. Known synonyms fold
// to their canonical name; unknown keywords are kept as normalized text.
// Repeating a keyword raises its weight by one.
func FromKeywords(keywords []string, vocab *vocabulary.Vocabulary) Requirements {
	req := make(Requirements)
	for _, kw := range keywords {
		phrase := textnorm.Phrase(kw)
		if phrase == "" {
			continue
		}
		if canonical, ok := vocab.Canonical(phrase); ok {
			phrase = canonical
		}
		req[phrase]++
	}
	return req
}
