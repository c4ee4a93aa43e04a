// Package engine screens resumes against a job: it derives weighted skill
// requirements, matches each resume independently and ranks the results.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/screener/internal/fuzzy"
	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/ranking"
	"github.com/hyperjump/screener/internal/scoring"
	"github.com/hyperjump/screener/internal/skills"
	"github.com/hyperjump/screener/internal/textnorm"
	"github.com/hyperjump/screener/internal/vocabulary"
)

const (
	// DefaultWorkers bounds how many resumes are matched at once.
	DefaultWorkers = 4

	maxNGram = 4
)

// Engine is safe for concurrent use. It holds no state beyond its
// configuration and the read-only vocabulary.
type Engine struct {
	vocab     *vocabulary.Vocabulary
	threshold float64
	workers   int
	logger    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the minimum fuzzy similarity, in (0, 1].
func WithThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t <= 1 {
			e.threshold = t
		}
	}
}

// WithWorkers sets the number of resumes matched concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine over vocab.
func New(vocab *vocabulary.Vocabulary, opts ...Option) *Engine {
	e := &Engine{
		vocab:     vocab,
		threshold: fuzzy.DefaultThreshold,
		workers:   DefaultWorkers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Vocabulary returns the vocabulary the engine matches against.
func (e *Engine) Vocabulary() *vocabulary.Vocabulary {
	return e.vocab
}

// Threshold returns the fuzzy acceptance threshold.
func (e *Engine) Threshold() float64 {
	return e.threshold
}

// Requirements derives weighted required skills from a job. A description
// wins over keywords when both are present.
func (e *Engine) Requirements(job models.JobSpec) (skills.Requirements, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(job.Description) != "" {
		return skills.FromDescription(job.Description, e.vocab), nil
	}
	return skills.FromKeywords(job.Keywords, e.vocab), nil
}

// Analyze reports the skills a job requires without matching anything.
func (e *Engine) Analyze(job models.JobSpec) (*models.JobAnalysis, error) {
	req, err := e.Requirements(job)
	if err != nil {
		return nil, err
	}
	roles, experience := e.describe(job)
	return &models.JobAnalysis{
		RequiredSkills: req.Skills(),
		Weights:        req,
		TotalWeight:    req.TotalWeight(),
		Roles:          roles,
		Experience:     experience,
	}, nil
}

// describe extracts the job titles and the experience a job asks for. Each
// keyword is read on its own so a title never spans two of them.
func (e *Engine) describe(job models.JobSpec) (roles []string, experience string) {
	text := job.Description
	if strings.TrimSpace(text) == "" {
		text = strings.Join(job.Keywords, "\n")
	}
	return skills.Roles(text, e.vocab), skills.Experience(text)
}

// Mentions returns what text offers for matching req. known holds the
// vocabulary skills the text mentions; vocabulary skills are matched against
// known alone, so an ordinary word like "trust" never stands in for "rust".
// open is the text's raw n-gram profile, built only when req holds skills
// outside the vocabulary, and is what those skills fuzzy-match against.
func (e *Engine) Mentions(text string, req skills.Requirements) (known, open skills.Mentions) {
	tokens := textnorm.Normalize(text)
	known = skills.Extract(tokens, e.vocab)
	outside := req.Outside(e.vocab)
	if len(outside) == 0 {
		return known, nil
	}
	n := outside.MaxTokens()
	if n > maxNGram {
		n = maxNGram
	}
	return known, skills.Profile(tokens, e.vocab, n)
}

// MatchOne screens a single document. Matched and missing skills partition
// the required skills.
func (e *Engine) MatchOne(req skills.Requirements, doc *models.Document) *models.MatchResult {
	known, open := e.Mentions(doc.Text, req)

	result := &models.MatchResult{
		ID:            doc.ID,
		Filename:      doc.Filename,
		MatchedSkills: []string{},
		MissingSkills: []string{},
		MatchDetails:  []models.SkillMatch{},
	}
	for _, skill := range req.Skills() {
		candidates := known
		if !e.vocab.Has(skill) {
			candidates = open
		}
		outcome, ok := fuzzy.MatchSkill(skill, candidates, e.threshold)
		if !ok {
			result.MissingSkills = append(result.MissingSkills, skill)
			continue
		}
		result.MatchedSkills = append(result.MatchedSkills, skill)
		result.MatchDetails = append(result.MatchDetails, models.SkillMatch{
			Required:   outcome.Required,
			Found:      outcome.Found,
			Similarity: outcome.Similarity,
		})
	}
	sort.Strings(result.MatchedSkills)
	sort.Strings(result.MissingSkills)

	s := scoring.Score(req, result.MatchedSkills)
	result.Score = s.Score
	result.NoRequirements = s.NoRequirements
	return result
}

// Screen matches every document against job and returns them ranked. Each
// document is matched independently, at most workers at a time. Cancelling
// ctx abandons the batch.
func (e *Engine) Screen(ctx context.Context, job models.JobSpec, docs []*models.Document) (*models.ScreenResult, error) {
	start := time.Now()
	req, err := e.Requirements(job)
	if err != nil {
		return nil, err
	}
	for i, doc := range docs {
		if err := models.ValidateDocument(doc); err != nil {
			return nil, fmt.Errorf("resume %d: %w", i, err)
		}
	}

	results := make([]*models.MatchResult, len(docs))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, doc := range docs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = e.MatchOne(req, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening cancelled: %w", err)
	}

	ranked := ranking.Rank(results)
	e.logger.Debug("screened resumes",
		zap.Int("resumes", len(docs)),
		zap.Int("required_skills", len(req)),
		zap.Duration("elapsed", time.Since(start)))

	roles, experience := e.describe(job)
	return &models.ScreenResult{
		RequiredSkills: req.Skills(),
		Weights:        req,
		Roles:          roles,
		Experience:     experience,
		Results:        ranked,
		Total:          len(ranked),
		QueryTime:      time.Since(start).Milliseconds(),
	}, nil
}
