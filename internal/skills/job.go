package skills

import (
	"regexp"
	"strings"

	"github.com/hyperjump/screener/internal/textnorm"
	"github.com/hyperjump/screener/internal/vocabulary"
)

// MaxRoles caps how many role phrases a job reports.
const MaxRoles = 5

var roleNouns = toSet(
	"developer", "engineer", "manager", "architect", "analyst", "designer",
	"specialist", "lead", "director", "coordinator", "scientist",
	"administrator", "consultant", "programmer", "tester",
)

// roleModifiers may precede a role noun as part of the title.
var roleModifiers = toSet(
	"senior", "sr", "junior", "jr", "staff", "principal", "chief", "head",
	"lead", "associate", "intern", "entry", "level", "mid",
	"software", "backend", "frontend", "fullstack", "full", "stack", "web",
	"mobile", "data", "cloud", "devops", "platform", "infrastructure",
	"site", "reliability", "security", "qa", "test", "product", "project",
	"program", "engineering", "solution", "system", "database", "network",
	"ui", "ux", "research", "machine", "learning", "ai", "embedded", "game",
	"technical", "business", "tech", "team",
)

const maxRoleModifiers = 3

var (
	rangeYearsRe = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:-|–|to)\s*(\d{1,2})\s*(?:years?|yrs?)\b`)
	minYearsRe   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(\+|plus)?\s*(?:years?|yrs?)\b[^.;\n]*?\bexperience`)
	expYearsRe   = regexp.MustCompile(`(?i)\bexperience\b[^.;\n]*?\b(\d{1,2})\s*(\+|plus)?\s*(?:years?|yrs?)\b`)
)

// Roles returns the job titles named in text, such as "senior backend
// engineer", in order of first appearance and at most MaxRoles of them. A
// title is a role noun with up to three preceding seniority, discipline or
// vocabulary-skill words. Titles never span sentence punctuation.
func Roles(text string, vocab *vocabulary.Vocabulary) []string {
	roles := []string{}
	seen := make(map[string]struct{})
	for _, segment := range strings.FieldsFunc(text, isClauseBreak) {
		tokens := textnorm.Normalize(segment)
		for i, tok := range tokens {
			if _, ok := roleNouns[tok]; !ok {
				continue
			}
			// "lead engineer": the title ends at the last role noun
			if i+1 < len(tokens) {
				if _, ok := roleNouns[tokens[i+1]]; ok {
					continue
				}
			}
			start := i
			for start > 0 && i-start < maxRoleModifiers && isRoleModifier(tokens[start-1], vocab) {
				start--
			}
			// a bare "lead" is usually the verb
			if tok == "lead" && start == i {
				continue
			}
			role := tokens[start : i+1].String()
			if _, dup := seen[role]; dup {
				continue
			}
			seen[role] = struct{}{}
			roles = append(roles, role)
			if len(roles) == MaxRoles {
				return roles
			}
		}
	}
	return roles
}

// Experience returns the years of experience text asks for: "3-5 years",
// "5+ years" or "2 years". A bare count must sit in the same sentence as the
// word "experience". Returns "" when nothing is stated.
func Experience(text string) string {
	if m := rangeYearsRe.FindStringSubmatch(text); m != nil {
		return m[1] + "-" + m[2] + " years"
	}
	for _, re := range []*regexp.Regexp{minYearsRe, expYearsRe} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		years := m[1]
		if m[2] != "" {
			years += "+"
		}
		if years == "1" {
			return "1 year"
		}
		return years + " years"
	}
	return ""
}

func isRoleModifier(tok string, vocab *vocabulary.Vocabulary) bool {
	if _, ok := roleModifiers[tok]; ok {
		return true
	}
	return vocab != nil && vocab.Has(tok)
}

func isClauseBreak(r rune) bool {
	switch r {
	case '.', ',', ';', ':', '!', '?', '\n', '(', ')', '/', '|':
		return true
	}
	return false
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
