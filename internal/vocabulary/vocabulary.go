// Package vocabulary holds the canonical skill names and their accepted surface forms.
package vocabulary

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/screener/internal/textnorm"
)

//go:embed default.yaml
var defaultYAML []byte

// Entry is one vocabulary record as written in configuration. Synonyms count
// as mentions wherever they appear in text. Aliases only fold job keywords to
// the canonical name; they are too ambiguous to count in running prose
// ("go" in "ready to go").
type Entry struct {
	Name     string   `yaml:"name" json:"name"`
	Synonyms []string `yaml:"synonyms,omitempty" json:"synonyms,omitempty"`
	Aliases  []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// File is the on-disk vocabulary schema.
type File struct {
	Skills []Entry `yaml:"skills"`
}

// Skill is a canonical skill with the normalized token sequences that count as
// a mention of it. The canonical name is always one of its forms.
type Skill struct {
	Name    string
	Forms   []textnorm.Tokens
	Aliases []string
}

// Form is one surface form together with the skill it folds to.
type Form struct {
	Tokens textnorm.Tokens
	Skill  string
}

// Vocabulary is an immutable canonical-skill lookup shared by all matches.
// All methods are safe for concurrent use.
type Vocabulary struct {
	skills    []Skill
	names     map[string]struct{}
	bySurface map[string][]string
	byFirst   map[string][]Form
	maxForm   int
}

// New validates entries and builds a vocabulary. Names and synonyms are passed
// through the normalizer; duplicate canonical names or names that normalize to
// nothing produce a *ConfigurationError.
func New(entries []Entry) (*Vocabulary, error) {
	v := &Vocabulary{
		skills:    make([]Skill, 0, len(entries)),
		names:     make(map[string]struct{}, len(entries)),
		bySurface: make(map[string][]string),
		byFirst:   make(map[string][]Form),
	}
	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		name := textnorm.Phrase(e.Name)
		if name == "" {
			return nil, &ConfigurationError{Skill: e.Name, Message: "canonical name is empty after normalization"}
		}
		if prev, dup := seen[name]; dup {
			return nil, &ConfigurationError{
				Skill:   e.Name,
				Message: fmt.Sprintf("duplicate canonical name %q (also declared as %q)", name, prev),
			}
		}
		seen[name] = e.Name
		v.names[name] = struct{}{}

		skill := Skill{Name: name}
		forms := make(map[string]struct{})
		for _, raw := range append([]string{e.Name}, e.Synonyms...) {
			tokens := textnorm.Normalize(raw)
			if len(tokens) == 0 {
				continue
			}
			key := tokens.String()
			if _, ok := forms[key]; ok {
				continue
			}
			forms[key] = struct{}{}
			skill.Forms = append(skill.Forms, tokens)
			v.bySurface[key] = append(v.bySurface[key], name)
			v.byFirst[tokens[0]] = append(v.byFirst[tokens[0]], Form{Tokens: tokens, Skill: name})
			if len(tokens) > v.maxForm {
				v.maxForm = len(tokens)
			}
		}
		for _, raw := range e.Aliases {
			alias := textnorm.Phrase(raw)
			if alias == "" {
				continue
			}
			if _, ok := forms[alias]; ok {
				continue
			}
			forms[alias] = struct{}{}
			skill.Aliases = append(skill.Aliases, alias)
			v.bySurface[alias] = append(v.bySurface[alias], name)
		}
		v.skills = append(v.skills, skill)
	}
	sort.Slice(v.skills, func(i, j int) bool { return v.skills[i].Name < v.skills[j].Name })
	for surface := range v.bySurface {
		sort.Strings(v.bySurface[surface])
	}
	return v, nil
}

// Parse builds a vocabulary from YAML bytes.
func Parse(data []byte) (*Vocabulary, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &ConfigurationError{Message: "failed to parse vocabulary", Cause: err}
	}
	return New(f.Skills)
}

// LoadFile reads a YAML vocabulary from path.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return Parse(data)
}

// Default returns the vocabulary embedded in the binary.
func Default() (*Vocabulary, error) {
	return Parse(defaultYAML)
}

// Skills returns the canonical skills sorted by name. The slice must not be modified.
func (v *Vocabulary) Skills() []Skill {
	return v.skills
}

// Names returns the canonical names in ascending order.
func (v *Vocabulary) Names() []string {
	names := make([]string, len(v.skills))
	for i, s := range v.skills {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of canonical skills.
func (v *Vocabulary) Len() int {
	return len(v.skills)
}

// Has reports whether name is a canonical skill name.
func (v *Vocabulary) Has(name string) bool {
	_, ok := v.names[name]
	return ok
}

// MaxFormLength returns the token length of the longest surface form.
func (v *Vocabulary) MaxFormLength() int {
	return v.maxForm
}

// FormsStartingWith returns every surface form whose first token is token.
func (v *Vocabulary) FormsStartingWith(token string) []Form {
	return v.byFirst[token]
}

// Canonical folds an already normalized phrase, a surface form or an alias, to
// its canonical skill name.
// When a surface form is shared, the skill whose name equals the phrase wins,
// then the lexicographically first.
func (v *Vocabulary) Canonical(phrase string) (string, bool) {
	names, ok := v.bySurface[phrase]
	if !ok || len(names) == 0 {
		return "", false
	}
	for _, n := range names {
		if n == phrase {
			return n, true
		}
	}
	return names[0], true
}
