package scoring

import (
	"testing"

	"github.com/hyperjump/screener/internal/skills"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		required skills.Requirements
		matched  []string
		want     Result
	}{
		{"all matched", skills.Requirements{"python": 1, "django": 1, "postgresql": 1}, []string{"python", "django", "postgresql"}, Result{Score: 100}},
		{"none matched", skills.Requirements{"docker": 1, "kubernetes": 1}, nil, Result{Score: 0}},
		{"equal weights", skills.Requirements{"a1": 1, "b1": 1, "c1": 1}, []string{"a1"}, Result{Score: 33.3}},
		{"two of three", skills.Requirements{"a1": 1, "b1": 1, "c1": 1}, []string{"a1", "b1"}, Result{Score: 66.7}},
		{"weighted", skills.Requirements{"python": 3, "go": 1}, []string{"python"}, Result{Score: 75}},
		{"weighted light", skills.Requirements{"python": 3, "go": 1}, []string{"go"}, Result{Score: 25}},
		{"duplicate matched counted once", skills.Requirements{"a1": 1, "b1": 1}, []string{"a1", "a1"}, Result{Score: 50}},
		{"unknown matched ignored", skills.Requirements{"a1": 1, "b1": 1}, []string{"zz"}, Result{Score: 0}},
		{"no requirements", skills.Requirements{}, []string{"python"}, Result{NoRequirements: true}},
		{"nil requirements", nil, nil, Result{NoRequirements: true}},
		{"zero weight", skills.Requirements{"a1": 0}, []string{"a1"}, Result{NoRequirements: true}},
		{"nine of ten", skills.Requirements{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1, "f": 1, "g": 1, "h": 1, "i": 1, "j": 1}, []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}, Result{Score: 90}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.required, tt.matched)
			if got != tt.want {
				t.Errorf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{33.333, 33.3},
		{66.666, 66.7},
		{12.25, 12.3},
		{99.95, 100},
		{100, 100},
	}
	for _, tt := range tests {
		if got := Round1(tt.in); got != tt.want {
			t.Errorf("Round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
