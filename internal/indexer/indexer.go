// Package indexer adds resumes to the library: text extraction, skill
// profiling, the SQLite store and the full-text index.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/extract"
	"github.com/hyperjump/screener/internal/fileid"
	"github.com/hyperjump/screener/internal/library"
	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/skills"
	"github.com/hyperjump/screener/internal/storage"
	"github.com/hyperjump/screener/internal/textnorm"
	"github.com/hyperjump/screener/internal/vocabulary"
)

// Indexer keeps the resume store and the library index in step.
type Indexer struct {
	storage   storage.Storage
	library   *library.Index
	vocab     *vocabulary.Vocabulary
	extractor *extract.Extractor
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (resume added, resume deleted, etc.).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) {
		if l != nil {
			idx.logger = l
		}
	}
}

// NewIndexer creates an indexer. lib may be nil, in which case resumes are
// only stored. extractor may be nil; files are then read as plain text.
func NewIndexer(
	store storage.Storage,
	lib *library.Index,
	vocab *vocabulary.Vocabulary,
	extractor *extract.Extractor,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		storage:   store,
		library:   lib,
		vocab:     vocab,
		extractor: extractor,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// SkillCounts returns how often each vocabulary skill occurs in text.
func (idx *Indexer) SkillCounts(text string) map[string]int {
	return skills.Extract(textnorm.Normalize(text), idx.vocab)
}

// AddResume stores a resume and indexes it for search. A resume whose text
// is already stored is not duplicated: the stored record is returned with
// created false. A non-empty id is used for new records.
func (idx *Indexer) AddResume(ctx context.Context, id, filename, text string) (*models.Resume, bool, error) {
	if err := models.ValidateDocument(&models.Document{ID: id, Filename: filename, Text: text}); err != nil {
		return nil, false, err
	}
	r := &models.Resume{
		ID:       id,
		Filename: filename,
		Text:     text,
		Skills:   idx.SkillCounts(text),
	}
	created, err := idx.storage.SaveResume(ctx, r)
	if err != nil {
		return nil, false, fmt.Errorf("failed to store resume: %w", err)
	}
	if err := idx.indexLibrary(ctx, r); err != nil {
		return nil, false, err
	}
	idx.logger.Debug("indexer resume added",
		zap.String("id", r.ID),
		zap.String("filename", r.Filename),
		zap.Bool("created", created),
		zap.Int("skills", len(r.Skills)))
	return r, created, nil
}

func (idx *Indexer) indexLibrary(ctx context.Context, r *models.Resume) error {
	if idx.library == nil {
		return nil
	}
	if err := idx.library.Index(ctx, r); err != nil {
		return fmt.Errorf("failed to index resume: %w", err)
	}
	return nil
}

// ExtractBytes turns uploaded file content into resume text.
func (idx *Indexer) ExtractBytes(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if idx.extractor == nil {
		return extract.Clean(string(content)), nil
	}
	return idx.extractor.ExtractBytes(content, ext)
}

// AddFile extracts a resume file and adds it under an id derived from its
// absolute path, so a changed file replaces its earlier version. If
// allowedExts is non-empty the file's extension must be in it. An unchanged
// file is only re-indexed.
func (idx *Indexer) AddFile(ctx context.Context, path string, allowedExts []string) (*models.Resume, bool, error) {
	idx.logger.Debug("indexer adding file", zap.String("path", path))
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, false, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, false, fmt.Errorf("not a regular file: %s", absPath)
	}
	text, err := idx.extractContent(absPath)
	if err != nil {
		return nil, false, fmt.Errorf("extract content: %w", err)
	}

	id := fileid.FileDocID(absPath)
	existing, err := idx.storage.GetResume(ctx, id)
	switch {
	case err == nil && existing.ContentHash == fileid.ContentID(text):
		idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		if err := idx.indexLibrary(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case err == nil:
		if err := idx.DeleteResume(ctx, id); err != nil {
			return nil, false, err
		}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, err
	}
	return idx.AddResume(ctx, id, filepath.Base(absPath), text)
}

// AddDirectory walks dir recursively and adds each regular file whose
// extension is in allowedExts (all files when empty). Files that fail are
// logged and skipped. Returns the number of files added.
func (idx *Indexer) AddDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are added
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if _, _, addErr := idx.AddFile(ctx, path, allowedExts); addErr != nil {
			idx.logger.Warn("indexer skipped file", zap.String("path", path), zap.Error(addErr))
			return nil
		}
		n++
		return nil
	})
	return n, err
}

// Reindex rebuilds the library index from the store, for example after the
// index directory was removed. Returns the number of resumes indexed.
func (idx *Indexer) Reindex(ctx context.Context) (int, error) {
	if idx.library == nil {
		return 0, nil
	}
	const page = 200
	n := 0
	for offset := 0; ; offset += page {
		batch, err := idx.storage.ListResumes(ctx, offset, page)
		if err != nil {
			return n, err
		}
		for _, r := range batch {
			if err := idx.indexLibrary(ctx, r); err != nil {
				return n, err
			}
			n++
		}
		if len(batch) < page {
			return n, nil
		}
	}
}

// DeleteResume removes a resume from the index and the store.
func (idx *Indexer) DeleteResume(ctx context.Context, id string) error {
	idx.logger.Debug("indexer deleting resume", zap.String("id", id))
	if idx.library != nil {
		if err := idx.library.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete from library index: %w", err)
		}
	}
	if err := idx.storage.DeleteResume(ctx, id); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	return nil
}

func (idx *Indexer) extractContent(path string) (string, error) {
	if idx.extractor != nil {
		return idx.extractor.Extract(path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return extract.Clean(string(content)), nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
