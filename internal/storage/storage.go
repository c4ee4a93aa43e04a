// Package storage defines persistence for the resume library and match history.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/screener/internal/models"
)

// ErrNotFound is wrapped by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Storage defines resume library and screening history operations.
type Storage interface {
	// Resume library
	SaveResume(ctx context.Context, r *models.Resume) (created bool, err error)
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	ListResumes(ctx context.Context, offset, limit int) ([]*models.Resume, error)
	GetResumes(ctx context.Context, ids []string) ([]*models.Resume, error)
	DeleteResume(ctx context.Context, id string) error

	// Screening history
	SaveJobSearch(ctx context.Context, js *models.JobSearch) error
	GetJobSearch(ctx context.Context, id string) (*models.JobSearch, error)
	ListJobSearches(ctx context.Context, offset, limit int) ([]*models.JobSearch, error)
	SaveMatches(ctx context.Context, jobSearchID string, results []*models.MatchResult) error
	ListMatchesByJob(ctx context.Context, jobSearchID string) ([]*models.StoredMatch, error)
	ListMatches(ctx context.Context, offset, limit int) ([]*models.StoredMatch, error)

	// Stats
	CountResumes(ctx context.Context) (int64, error)
	DashboardStats(ctx context.Context, topSkills, recent int) (*models.DashboardStats, error)

	Close() error
}
