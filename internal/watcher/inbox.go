package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/engine"
	"github.com/hyperjump/screener/internal/fileid"
	"github.com/hyperjump/screener/internal/indexer"
	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/storage"
)

// Inbox adds resumes that land in a watched directory to the library and,
// when a standing job is set, screens each new one against it.
type Inbox struct {
	indexer     *indexer.Indexer
	engine      *engine.Engine
	store       storage.Storage
	job         *models.JobSpec
	jobSearchID string
	extensions  []string
	logger      *zap.Logger
}

// InboxOption configures an Inbox.
type InboxOption func(*Inbox)

// WithInboxLogger sets the logger screening outcomes are reported to.
func WithInboxLogger(l *zap.Logger) InboxOption {
	return func(in *Inbox) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithStandingJob screens every new resume against job.
func WithStandingJob(job *models.JobSpec) InboxOption {
	return func(in *Inbox) { in.job = job }
}

// NewInbox creates an inbox handler.
func NewInbox(idx *indexer.Indexer, eng *engine.Engine, store storage.Storage, extensions []string, opts ...InboxOption) *Inbox {
	in := &Inbox{
		indexer:    idx,
		engine:     eng,
		store:      store,
		extensions: extensions,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Open records the standing job as a job search so inbox matches have a
// history to attach to. Without a standing job it does nothing.
func (in *Inbox) Open(ctx context.Context) error {
	if in.job == nil {
		return nil
	}
	analysis, err := in.engine.Analyze(*in.job)
	if err != nil {
		return fmt.Errorf("standing job: %w", err)
	}
	js := &models.JobSearch{
		Description:    in.job.Description,
		Keywords:       in.job.Keywords,
		RequiredSkills: analysis.Weights,
		Roles:          analysis.Roles,
		Experience:     analysis.Experience,
	}
	if err := in.store.SaveJobSearch(ctx, js); err != nil {
		return fmt.Errorf("failed to record standing job: %w", err)
	}
	in.jobSearchID = js.ID
	in.logger.Info("inbox screening against standing job",
		zap.String("job_search_id", js.ID),
		zap.Strings("required_skills", analysis.RequiredSkills))
	return nil
}

// JobSearchID returns the job search inbox matches are stored under.
func (in *Inbox) JobSearchID() string {
	return in.jobSearchID
}

// Arrived adds the file at path and screens it if it is a new resume.
func (in *Inbox) Arrived(ctx context.Context, path string) {
	r, created, err := in.indexer.AddFile(ctx, path, in.extensions)
	if err != nil {
		in.logger.Warn("inbox could not add resume", zap.String("path", path), zap.Error(err))
		return
	}
	if !created {
		in.logger.Debug("inbox resume already in library", zap.String("path", path), zap.String("id", r.ID))
		return
	}
	in.logger.Info("inbox resume added", zap.String("filename", r.Filename), zap.String("id", r.ID))
	if in.job == nil {
		return
	}

	res, err := in.engine.Screen(ctx, *in.job, []*models.Document{r.Document()})
	if err != nil {
		in.logger.Warn("inbox screening failed", zap.String("path", path), zap.Error(err))
		return
	}
	m := res.Results[0]
	in.logger.Info("inbox resume screened",
		zap.String("filename", m.Filename),
		zap.Float64("score", m.Score),
		zap.Strings("matched", m.MatchedSkills),
		zap.Strings("missing", m.MissingSkills))
	if in.jobSearchID == "" {
		return
	}
	if err := in.store.SaveMatches(ctx, in.jobSearchID, res.Results); err != nil {
		in.logger.Warn("inbox could not store match", zap.String("path", path), zap.Error(err))
	}
}

// Removed drops the resume that was added from path.
func (in *Inbox) Removed(ctx context.Context, path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	err = in.indexer.DeleteResume(ctx, fileid.FileDocID(abs))
	switch {
	case err == nil:
		in.logger.Info("inbox resume removed", zap.String("path", abs))
	case errors.Is(err, storage.ErrNotFound):
	default:
		in.logger.Warn("inbox could not remove resume", zap.String("path", abs), zap.Error(err))
	}
}
