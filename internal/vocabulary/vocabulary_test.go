package vocabulary

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_normalizesNamesAndSynonyms(t *testing.T) {
	v, err := New([]Entry{
		{Name: "Node.js", Synonyms: []string{"NodeJS", "node js"}},
		{Name: "Machine Learning", Synonyms: []string{"ML"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"machine learning", "node js"}, v.Names())
	assert.Equal(t, 2, v.Len())
	assert.Equal(t, 2, v.MaxFormLength())

	name, ok := v.Canonical("nodejs")
	assert.True(t, ok)
	assert.Equal(t, "node js", name)

	name, ok = v.Canonical("ml")
	assert.True(t, ok)
	assert.Equal(t, "machine learning", name)

	_, ok = v.Canonical("cobol")
	assert.False(t, ok)
}

func TestNew_dedupesForms(t *testing.T) {
	v, err := New([]Entry{{Name: "Python", Synonyms: []string{"python", "PYTHON", "py"}}})
	require.NoError(t, err)
	require.Len(t, v.Skills(), 1)
	assert.Len(t, v.Skills()[0].Forms, 2)
}

func TestNew_aliasesFoldKeywordsOnly(t *testing.T) {
	v, err := New([]Entry{{Name: "golang", Synonyms: []string{"go lang"}, Aliases: []string{"Go", "golang"}}})
	require.NoError(t, err)

	name, ok := v.Canonical("go")
	require.True(t, ok)
	assert.Equal(t, "golang", name)
	assert.Empty(t, v.FormsStartingWith("go"), "an alias is not a surface form")
	assert.Equal(t, []string{"go"}, v.Skills()[0].Aliases)
	assert.Equal(t, 2, v.MaxFormLength())
}

func TestHas(t *testing.T) {
	v, err := New([]Entry{{Name: "PostgreSQL", Synonyms: []string{"postgres"}}})
	require.NoError(t, err)
	assert.True(t, v.Has("postgresql"))
	assert.False(t, v.Has("postgres"), "synonyms are not canonical names")
	assert.False(t, v.Has("mysql"))
}

func TestNew_configurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"duplicate canonical", []Entry{{Name: "python"}, {Name: "Python"}}},
		{"duplicate after punctuation", []Entry{{Name: "node.js"}, {Name: "Node JS"}}},
		{"empty name", []Entry{{Name: ""}}},
		{"stopword name", []Entry{{Name: "the"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			require.Error(t, err)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestCanonical_sharedSurfacePrefersOwnName(t *testing.T) {
	v, err := New([]Entry{
		{Name: "spark", Synonyms: []string{"pyspark"}},
		{Name: "pyspark"},
	})
	require.NoError(t, err)

	name, ok := v.Canonical("pyspark")
	require.True(t, ok)
	assert.Equal(t, "pyspark", name)
}

func TestDefault(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)
	assert.Greater(t, v.Len(), 50)

	for surface, want := range map[string]string{
		"postgres":  "postgresql",
		"k8s":       "kubernetes",
		"node js":   "nodejs",
		"go":        "golang",
		"ml":        "machine learning",
		"unit test": "unit testing",
	} {
		got, ok := v.Canonical(surface)
		if assert.True(t, ok, surface) {
			assert.Equal(t, want, got, surface)
		}
	}
}

func TestDefault_ambiguousWordsAreNotMentions(t *testing.T) {
	v, err := Default()
	require.NoError(t, err)
	for _, word := range []string{"go", "rest"} {
		for _, f := range v.FormsStartingWith(word) {
			assert.Greater(t, len(f.Tokens), 1, "%q alone must not count as a mention of %s", word, f.Skill)
		}
	}
	name, ok := v.Canonical("go developer")
	require.True(t, ok)
	assert.Equal(t, "golang", name)
	name, ok = v.Canonical("rest")
	require.True(t, ok)
	assert.Equal(t, "rest api", name)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skills.yaml")
	data := []byte("skills:\n  - name: Elixir\n    synonyms: [ex]\n  - name: Phoenix\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	v, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"elixir", "phoenix"}, v.Names())
}

func TestLoadFile_errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [unclosed"), 0644))
	_, err = LoadFile(path)
	var cfgErr *ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}
