package library

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/screener/internal/models"
)

func seed(t *testing.T, idx *Index) {
	t.Helper()
	ctx := context.Background()
	for _, r := range []*models.Resume{
		{ID: "r1", Filename: "alice.pdf", Text: "Senior Python developer with Django and PostgreSQL"},
		{ID: "r2", Filename: "bob.docx", Text: "Frontend engineer: React, TypeScript, CSS"},
		{ID: "r3", Filename: "carol-kubernetes.txt", Text: "Platform work on Terraform and AWS"},
	} {
		require.NoError(t, idx.Index(ctx, r))
	}
}

func TestIndex_Search(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()
	seed(t, idx)

	ctx := context.Background()
	hits, err := idx.Search(ctx, "django", 10, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "r1", hits[0].ID)

	// filename is searchable
	hits, err = idx.Search(ctx, "kubernetes", 10, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "r3", hits[0].ID)

	hits, err = idx.Search(ctx, "cobol", 10, false)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "   ", 10, false)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_FuzzySearch(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()
	seed(t, idx)

	ctx := context.Background()
	hits, err := idx.Search(ctx, "typscript", 10, false)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = idx.Search(ctx, "typscript", 10, true)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "r2", hits[0].ID)

	hits, err = idx.Search(ctx, "djang terrafom", 10, true)
	require.NoError(t, err)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	assert.ElementsMatch(t, []string{"r1", "r3"}, ids)
}

func TestIndex_DeleteAndCount(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()
	seed(t, idx)

	ctx := context.Background()
	n, err := idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	require.NoError(t, idx.Delete(ctx, "r1"))
	require.NoError(t, idx.Delete(ctx, "missing"))
	n, err = idx.DocCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), n)

	hits, err := idx.Search(ctx, "django", 10, false)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestIndex_RejectsMissingID(t *testing.T) {
	idx, err := NewMemoryIndex()
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()

	assert.Error(t, idx.Index(context.Background(), &models.Resume{Filename: "x.txt"}))
	assert.Error(t, idx.Index(context.Background(), nil))
}

func TestNewIndex_Reopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.bleve")
	idx, err := NewIndex(path)
	require.NoError(t, err)
	require.NoError(t, idx.Index(context.Background(), &models.Resume{ID: "r1", Filename: "a.txt", Text: "golang"}))
	require.NoError(t, idx.Close())

	idx, err = NewIndex(path)
	require.NoError(t, err)
	defer func() { _ = idx.Close() }()
	hits, err := idx.Search(context.Background(), "golang", 5, false)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "r1", hits[0].ID)
}
