// Package skills finds vocabulary skills in normalized text and derives
// weighted requirements from job input.
package skills

import (
	"sort"

	"github.com/hyperjump/screener/internal/textnorm"
	"github.com/hyperjump/screener/internal/vocabulary"
)

// Mentions maps a skill name to the number of times it occurs in a document.
type Mentions map[string]int

// Names returns the mentioned skills in ascending order.
func (m Mentions) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Extract counts every occurrence of every surface form of every vocabulary
// skill as a contiguous token run. Matches may overlap; a token can count
// toward several forms.
func Extract(tokens textnorm.Tokens, vocab *vocabulary.Vocabulary) Mentions {
	mentions := make(Mentions)
	for i, tok := range tokens {
		for _, form := range vocab.FormsStartingWith(tok) {
			if hasPrefixAt(tokens, i, form.Tokens) {
				mentions[form.Skill]++
			}
		}
	}
	return mentions
}

// NGrams counts every contiguous run of 1..maxN tokens, joined by spaces.
func NGrams(tokens textnorm.Tokens, maxN int) Mentions {
	grams := make(Mentions)
	for n := 1; n <= maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			grams[tokens[i:i+n].String()]++
		}
	}
	return grams
}

// Profile returns the vocabulary mentions of tokens merged with the raw
// n-grams up to maxN. Vocabulary counts win where a key appears in both.
func Profile(tokens textnorm.Tokens, vocab *vocabulary.Vocabulary, maxN int) Mentions {
	profile := NGrams(tokens, maxN)
	for skill, n := range Extract(tokens, vocab) {
		profile[skill] = n
	}
	return profile
}

func hasPrefixAt(tokens textnorm.Tokens, at int, form textnorm.Tokens) bool {
	if at+len(form) > len(tokens) {
		return false
	}
	for j, f := range form {
		if tokens[at+j] != f {
			return false
		}
	}
	return true
}
