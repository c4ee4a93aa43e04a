package fuzzy

import (
	"testing"

	"github.com/hyperjump/screener/internal/skills"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "python", "python", 0},
		{"empty a", "", "java", 4},
		{"empty b", "java", "", 4},
		{"one substitution", "react", "reakt", 1},
		{"one insertion", "javscript", "javascript", 1},
		{"one deletion", "kubernetes", "kubernets", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"postgresql to postgres", "postgresql", "postgres", 2},
		{"unrelated", "python", "ruby", 6},
		{"unicode runes", "naïve", "naive", 1},
		{"transposition costs two", "ab", "ba", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Distance(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Distance(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			if reverse := Distance(tt.b, tt.a); reverse != result {
				t.Errorf("Distance is not symmetric: (%q,%q)=%d, (%q,%q)=%d",
					tt.a, tt.b, result, tt.b, tt.a, reverse)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"", "", 1.0},
		{"python", "python", 1.0},
		{"javascript", "javscript", 0.9},
		{"postgresql", "postgres", 0.8},
		{"go", "", 0.0},
		{"abc", "xyz", 0.0},
	}
	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if rev := Similarity(tt.b, tt.a); rev != got {
			t.Errorf("Similarity is not symmetric for (%q, %q): %v vs %v", tt.a, tt.b, got, rev)
		}
		if got < 0 || got > 1 {
			t.Errorf("Similarity(%q, %q) = %v out of range", tt.a, tt.b, got)
		}
	}

	if got := Similarity("python", "ruby"); got >= DefaultThreshold {
		t.Errorf("Similarity(python, ruby) = %v, want below threshold", got)
	}
}

func TestMatchSkill(t *testing.T) {
	tests := []struct {
		name      string
		required  string
		mentions  skills.Mentions
		threshold float64
		wantOK    bool
		wantFound string
		wantSim   float64
	}{
		{"exact", "python", skills.Mentions{"python": 2}, 0.8, true, "python", 1.0},
		{"typo", "javascript", skills.Mentions{"javscript": 1}, 0.8, true, "javscript", 0.9},
		{"at threshold accepted", "postgresql", skills.Mentions{"postgres": 1}, 0.8, true, "postgres", 0.8},
		{"below threshold rejected", "postgresql", skills.Mentions{"postgres": 1}, 0.81, false, "", 0},
		{"unrelated", "python", skills.Mentions{"ruby": 1}, 0.8, false, "", 0},
		{"no mentions", "python", skills.Mentions{}, 0.8, false, "", 0},
		{"best wins", "kubernetes", skills.Mentions{"kubernets": 1, "kubrnets": 1, "docker": 3}, 0.8, true, "kubernets", 0.9},
		{"tie goes to first name", "react", skills.Mentions{"reacy": 1, "reach": 1}, 0.8, true, "reach", 0.8},
		{"exact beats fuzzy", "java", skills.Mentions{"jav": 1, "java": 1}, 0.5, true, "java", 1.0},
		{"threshold tunable", "python", skills.Mentions{"pyth": 1}, 0.6, true, "pyth", 4.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchSkill(tt.required, tt.mentions, tt.threshold)
			if ok != tt.wantOK {
				t.Fatalf("MatchSkill ok = %v, want %v (outcome %+v)", ok, tt.wantOK, got)
			}
			if !ok {
				return
			}
			if got.Required != tt.required || got.Found != tt.wantFound || got.Similarity != tt.wantSim {
				t.Errorf("MatchSkill = %+v, want found %q similarity %v", got, tt.wantFound, tt.wantSim)
			}
		})
	}
}

func TestUpperBound(t *testing.T) {
	tests := []struct {
		a, b int
		want float64
	}{
		{0, 0, 1.0},
		{10, 8, 0.8},
		{4, 10, 0.4},
		{5, 5, 1.0},
	}
	for _, tt := range tests {
		if got := upperBound(tt.a, tt.b); got != tt.want {
			t.Errorf("upperBound(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func BenchmarkMatchSkill(b *testing.B) {
	mentions := skills.Mentions{}
	for _, m := range []string{"python", "django", "postgres", "docker", "kubernetes", "terraform", "react", "typescript"} {
		mentions[m] = 1
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MatchSkill("postgresql", mentions, DefaultThreshold)
	}
}
