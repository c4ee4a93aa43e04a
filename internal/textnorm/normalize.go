// Package textnorm turns free text into the normalized token sequence used for skill matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokens is an ordered sequence of lowercase, lemmatized, stopword-free tokens.
// Order matters: multi-word skills are found as contiguous subsequences.
type Tokens []string

// String renders the tokens as text that normalizes back to the same tokens.
func (t Tokens) String() string {
	return strings.Join(t, " ")
}

// Normalize folds accents, lowercases, splits text on alphanumeric boundaries,
// lemmatizes and drops stopwords. It never fails; text without any word
// characters yields an empty sequence.
func Normalize(text string) Tokens {
	words := Split(text)
	out := make(Tokens, 0, len(words))
	for _, w := range words {
		w = Lemma(w)
		if IsStopword(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// symbolic names languages whose identity lives in punctuation that splitting
// would otherwise drop, so "C++" and "C#" do not both collapse to "c".
var symbolic = map[string]string{
	"c++": "cpp",
	"c#":  "csharp",
	"f#":  "fsharp",
}

// Split accent-folds and lowercases text and returns its alphanumeric runs,
// without lemmatization or stopword removal. Symbolic language names such as
// "c++" come back as their word spelling ("cpp").
func Split(text string) []string {
	if text == "" {
		return nil
	}
	folded := strings.ToLower(fold(text))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !isWord(r) && r != '+' && r != '#'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if word, ok := symbolic[f]; ok {
			out = append(out, word)
			continue
		}
		out = append(out, strings.FieldsFunc(f, func(r rune) bool { return !isWord(r) })...)
	}
	return out
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// fold strips combining marks after compatibility decomposition so that
// "café" and "cafe" produce the same token.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// Phrase normalizes a short phrase such as a keyword or a synonym and joins
// the result with single spaces. Returns "" when nothing survives.
func Phrase(s string) string {
	return Normalize(s).String()
}
