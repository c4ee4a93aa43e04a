package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoles(t *testing.T) {
	v := testVocab(t)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "We value curiosity and kindness.", []string{}},
		{"with seniority", "Hiring a Senior Backend Engineer to join us.", []string{"senior backend engineer"}},
		{"skill as qualifier", "Python developers wanted", []string{"python developer"}},
		{"lead as title", "Tech Lead, Engineering Manager", []string{"tech lead", "engineering manager"}},
		{"lead engineer ends at last noun", "Lead Engineer", []string{"lead engineer"}},
		{"lead as verb", "You will lead a small team.", []string{}},
		{"no crossing punctuation", "Django, developer experience matters", []string{"developer"}},
		{"deduped in order", "Data Scientist. Data scientists. ML engineer.", []string{"data scientist", "engineer"}},
		{"modifier cap", "senior staff principal software engineer", []string{"staff principal software engineer"}},
		{"capped", "developer; engineer; manager; architect; analyst; designer; tester",
			[]string{"developer", "engineer", "manager", "architect", "analyst"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Roles(tt.text, v))
		})
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"5+ years of experience with Go", "5+ years"},
		{"At least 3 years experience", "3 years"},
		{"3-5 years of professional experience", "3-5 years"},
		{"2 to 4 yrs in backend roles", "2-4 years"},
		{"Experience: 7 plus years building APIs", "7+ years"},
		{"1 year of experience", "1 year"},
		{"Founded 10 years ago. Experience with Python.", ""},
		{"No experience required", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Experience(tt.text))
		})
	}
}
