// Package fuzzy tolerates spelling variants between required skills and the
// skills a document mentions, using normalized edit distance.
package fuzzy

// Distance returns the minimum number of single-rune insertions, deletions or
// substitutions that turn a into b. Each edit costs one.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Two rolling rows of the edit matrix
	prev := make([]int, lenB+1)
	curr := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prev[j] = j
	}

	for i := 1; i <= lenA; i++ {
		curr[0] = i
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[lenB]
}

// Similarity is 1 - Distance(a, b) / max(len(a), len(b)) with lengths in
// runes. Equal strings, including two empty ones, score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	return float64(longest-Distance(a, b)) / float64(longest)
}

// upperBound is the best similarity two strings of these rune lengths could
// reach, since the distance is at least the length difference.
func upperBound(lenA, lenB int) float64 {
	longest := max(lenA, lenB)
	if longest == 0 {
		return 1.0
	}
	diff := lenA - lenB
	if diff < 0 {
		diff = -diff
	}
	return float64(longest-diff) / float64(longest)
}

func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
