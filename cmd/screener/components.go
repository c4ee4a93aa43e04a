package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/config"
	"github.com/hyperjump/screener/internal/engine"
	"github.com/hyperjump/screener/internal/extract"
	"github.com/hyperjump/screener/internal/indexer"
	"github.com/hyperjump/screener/internal/library"
	"github.com/hyperjump/screener/internal/storage"
	"github.com/hyperjump/screener/internal/vocabulary"
	"github.com/hyperjump/screener/internal/watcher"
)

// Components holds initialized services.
type Components struct {
	Storage *storage.SQLiteStorage
	Library *library.Index
	Engine  *engine.Engine
	Indexer *indexer.Indexer
	logger  *zap.Logger
}

func (c *Components) Close() {
	if c.Library != nil {
		_ = c.Library.Close()
	}
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
}

// syncLibrary rebuilds the search index when it holds fewer resumes than
// storage, e.g. after the index directory was deleted.
func (c *Components) syncLibrary(ctx context.Context) error {
	stored, err := c.Storage.CountResumes(ctx)
	if err != nil {
		return err
	}
	indexed, err := c.Library.DocCount()
	if err != nil {
		return err
	}
	if int64(indexed) >= stored {
		return nil
	}
	c.logger.Info("rebuilding resume index",
		zap.Int64("stored", stored),
		zap.Uint64("indexed", indexed))
	n, err := c.Indexer.Reindex(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("resume index rebuilt", zap.Int("resumes", n))
	return nil
}

func loadVocabulary(cfg *config.Config) (*vocabulary.Vocabulary, error) {
	if cfg.Matching.VocabularyPath != "" {
		return vocabulary.LoadFile(cfg.Matching.VocabularyPath)
	}
	return vocabulary.Default()
}

func newEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	vocab, err := loadVocabulary(cfg)
	if err != nil {
		return nil, err
	}
	return engine.New(vocab,
		engine.WithThreshold(cfg.Matching.FuzzyThreshold),
		engine.WithWorkers(cfg.Matching.Workers),
		engine.WithLogger(logger),
	), nil
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	eng, err := newEngine(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.LibraryIndexPath), 0755); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	lib, err := library.NewIndex(cfg.Storage.LibraryIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize resume index: %w", err)
	}

	idx := indexer.NewIndexer(store, lib, eng.Vocabulary(), extract.NewExtractor(), indexer.WithLogger(logger))

	return &Components{
		Storage: store,
		Library: lib,
		Engine:  eng,
		Indexer: idx,
		logger:  logger,
	}, nil
}

// startInbox watches the configured directories and screens each new resume
// against the standing job, if one is configured.
func startInbox(ctx context.Context, cfg *config.Config, c *Components, logger *zap.Logger) (*watcher.Watcher, error) {
	opts := []watcher.InboxOption{watcher.WithInboxLogger(logger)}
	if cfg.Watch.JobPath != "" {
		job, err := config.LoadJob(cfg.Watch.JobPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, watcher.WithStandingJob(job))
	}
	inbox := watcher.NewInbox(c.Indexer, c.Engine, c.Storage, cfg.Watch.Extensions, opts...)
	if err := inbox.Open(ctx); err != nil {
		return nil, err
	}

	w := watcher.NewWatcher(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		inbox,
		watcher.WithLogger(logger),
	)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	w.SyncExistingFiles()
	if id := inbox.JobSearchID(); id != "" {
		logger.Info("screening new resumes", zap.String("job_search_id", id))
	}
	return w, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
