package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperjump/screener/internal/engine"
	"github.com/hyperjump/screener/internal/extract"
	"github.com/hyperjump/screener/internal/fileid"
	"github.com/hyperjump/screener/internal/indexer"
	"github.com/hyperjump/screener/internal/library"
	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/storage"
	"github.com/hyperjump/screener/internal/vocabulary"
)

func newTestInbox(t *testing.T, job *models.JobSpec) (*Inbox, *storage.SQLiteStorage) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	lib, err := library.NewMemoryIndex()
	require.NoError(t, err)
	t.Cleanup(func() { _ = lib.Close() })
	vocab, err := vocabulary.Default()
	require.NoError(t, err)

	idx := indexer.NewIndexer(store, lib, vocab, extract.NewExtractor())
	var opts []InboxOption
	if job != nil {
		opts = append(opts, WithStandingJob(job))
	}
	in := NewInbox(idx, engine.New(vocab), store, []string{".txt"}, opts...)
	require.NoError(t, in.Open(context.Background()))
	return in, store
}

func TestInbox_ScreensNewResumes(t *testing.T) {
	in, store := newTestInbox(t, &models.JobSpec{Keywords: []string{"python", "docker"}})
	require.NotEmpty(t, in.JobSearchID())
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "alice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Python developer, some Docker"), 0600))

	in.Arrived(ctx, path)
	// a repeated event for the same content is not screened twice
	in.Arrived(ctx, path)

	matches, err := store.ListMatchesByJob(ctx, in.JobSearchID())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice.txt", matches[0].Filename)
	assert.Equal(t, 100.0, matches[0].Score)
	assert.Equal(t, fileid.FileDocID(path), matches[0].ResumeID)

	js, err := store.GetJobSearch(ctx, in.JobSearchID())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"python": 1, "docker": 1}, js.RequiredSkills)
}

func TestInbox_RemovedDropsResume(t *testing.T) {
	in, store := newTestInbox(t, nil)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "bob.txt")
	require.NoError(t, os.WriteFile(path, []byte("Rust and Kubernetes"), 0600))
	in.Arrived(ctx, path)

	n, err := store.CountResumes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	in.Removed(ctx, path)
	n, err = store.CountResumes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	// removing an unknown file is quiet
	in.Removed(ctx, filepath.Join(t.TempDir(), "never.txt"))
}

func TestInbox_IgnoresUnreadableFiles(t *testing.T) {
	in, store := newTestInbox(t, &models.JobSpec{Keywords: []string{"go"}})
	ctx := context.Background()

	in.Arrived(ctx, filepath.Join(t.TempDir(), "missing.txt"))
	n, err := store.CountResumes(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInbox_OpenRejectsEmptyJob(t *testing.T) {
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	defer store.Close()
	vocab, err := vocabulary.Default()
	require.NoError(t, err)

	idx := indexer.NewIndexer(store, nil, vocab, nil)
	in := NewInbox(idx, engine.New(vocab), store, nil, WithStandingJob(&models.JobSpec{}))
	assert.Error(t, in.Open(context.Background()))
}
