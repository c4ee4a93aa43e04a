// Package storage provides SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/screener/internal/fileid"
	"github.com/hyperjump/screener/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS resumes (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		content_hash TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		skills TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_resumes_created_at ON resumes(created_at);

	CREATE TABLE IF NOT EXISTS job_searches (
		id TEXT PRIMARY KEY,
		description TEXT,
		keywords TEXT,
		required_skills TEXT,
		roles TEXT,
		experience TEXT,
		result_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_job_searches_created_at ON job_searches(created_at);

	CREATE TABLE IF NOT EXISTS match_results (
		id TEXT PRIMARY KEY,
		job_search_id TEXT NOT NULL,
		resume_id TEXT,
		filename TEXT NOT NULL,
		score REAL NOT NULL,
		matched_skills TEXT,
		missing_skills TEXT,
		rank INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (job_search_id) REFERENCES job_searches(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_matches_job_search ON match_results(job_search_id, rank);
	CREATE INDEX IF NOT EXISTS idx_matches_created_at ON match_results(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	// databases created before job searches recorded roles and experience
	for _, col := range []string{"roles", "experience"} {
		if err := addColumnIfMissing(db, "job_searches", col, "TEXT"); err != nil {
			return err
		}
	}
	return nil
}

func addColumnIfMissing(db *sql.DB, table, column, decl string) error {
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	_, err = db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

// SaveResume stores r unless a resume with the same content already exists,
// in which case r is filled from the stored row and created is false.
func (s *SQLiteStorage) SaveResume(ctx context.Context, r *models.Resume) (bool, error) {
	r.ContentHash = fileid.ContentID(r.Text)

	existing, err := s.getResumeBy(ctx, "content_hash", r.ContentHash)
	if err == nil {
		*r = *existing
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	skillsJSON, err := json.Marshal(r.Skills)
	if err != nil {
		return false, fmt.Errorf("failed to marshal skills: %w", err)
	}
	r.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, filename, content_hash, text, skills, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Filename, r.ContentHash, r.Text, string(skillsJSON), r.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert resume: %w", err)
	}
	return true, nil
}

// GetResume returns a resume by ID.
func (s *SQLiteStorage) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	return s.getResumeBy(ctx, "id", id)
}

func (s *SQLiteStorage) getResumeBy(ctx context.Context, column, value string) (*models.Resume, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, content_hash, text, skills, created_at
		 FROM resumes WHERE `+column+` = ?`, value)
	r, err := scanResume(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resume %s: %w", value, ErrNotFound)
	}
	return r, err
}

// ListResumes returns resumes newest first.
func (s *SQLiteStorage) ListResumes(ctx context.Context, offset, limit int) ([]*models.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, content_hash, text, skills, created_at
		 FROM resumes ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

// GetResumes returns the resumes with the given IDs, skipping unknown ones.
func (s *SQLiteStorage) GetResumes(ctx context.Context, ids []string) ([]*models.Resume, error) {
	if len(ids) == 0 {
		return []*models.Resume{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, filename, content_hash, text, skills, created_at
		 FROM resumes WHERE id IN (`+placeholders+`) ORDER BY filename, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

// DeleteResume removes a resume and detaches it from stored matches.
func (s *SQLiteStorage) DeleteResume(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE match_results SET resume_id = NULL WHERE resume_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CountResumes returns the number of stored resumes.
func (s *SQLiteStorage) CountResumes(ctx context.Context) (int64, error) {
	return s.count(ctx, "resumes")
}

// SaveJobSearch inserts a job search, assigning an ID if empty.
func (s *SQLiteStorage) SaveJobSearch(ctx context.Context, js *models.JobSearch) error {
	if js.ID == "" {
		js.ID = uuid.New().String()
	}
	keywordsJSON, err := json.Marshal(js.Keywords)
	if err != nil {
		return fmt.Errorf("failed to marshal keywords: %w", err)
	}
	requiredJSON, err := json.Marshal(js.RequiredSkills)
	if err != nil {
		return fmt.Errorf("failed to marshal required skills: %w", err)
	}
	rolesJSON, err := json.Marshal(js.Roles)
	if err != nil {
		return fmt.Errorf("failed to marshal roles: %w", err)
	}
	js.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO job_searches (id, description, keywords, required_skills, roles, experience, result_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		js.ID, js.Description, string(keywordsJSON), string(requiredJSON), string(rolesJSON), js.Experience,
		js.ResultCount, js.CreatedAt,
	)
	return err
}

const jobSearchColumns = `id, description, keywords, required_skills, roles, experience, result_count, created_at`

// GetJobSearch returns a job search by ID.
func (s *SQLiteStorage) GetJobSearch(ctx context.Context, id string) (*models.JobSearch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobSearchColumns+` FROM job_searches WHERE id = ?`, id)
	js, err := scanJobSearch(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job search %s: %w", id, ErrNotFound)
	}
	return js, err
}

// ListJobSearches returns job searches newest first.
func (s *SQLiteStorage) ListJobSearches(ctx context.Context, offset, limit int) ([]*models.JobSearch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobSearchColumns+` FROM job_searches ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	searches := []*models.JobSearch{}
	for rows.Next() {
		js, err := scanJobSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, js)
	}
	return searches, rows.Err()
}

// SaveMatches stores ranked results for a job search in one transaction.
func (s *SQLiteStorage) SaveMatches(ctx context.Context, jobSearchID string, results []*models.MatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO match_results (id, job_search_id, resume_id, filename, score, matched_skills, missing_skills, rank, created_at)
		 VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range results {
		matchedJSON, err := json.Marshal(r.MatchedSkills)
		if err != nil {
			return fmt.Errorf("failed to marshal matched skills: %w", err)
		}
		missingJSON, err := json.Marshal(r.MissingSkills)
		if err != nil {
			return fmt.Errorf("failed to marshal missing skills: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), jobSearchID, r.ID, r.Filename, r.Score,
			string(matchedJSON), string(missingJSON), r.Rank, now,
		); err != nil {
			return fmt.Errorf("failed to insert match for %s: %w", r.Filename, err)
		}
	}
	return tx.Commit()
}

const matchColumns = `id, job_search_id, COALESCE(resume_id, ''), filename, score, matched_skills, missing_skills, rank, created_at`

// ListMatchesByJob returns the stored results of one job search in rank order.
func (s *SQLiteStorage) ListMatchesByJob(ctx context.Context, jobSearchID string) ([]*models.StoredMatch, error) {
	if _, err := s.GetJobSearch(ctx, jobSearchID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM match_results WHERE job_search_id = ? ORDER BY rank`, jobSearchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

// ListMatches returns stored results across all job searches, newest first.
func (s *SQLiteStorage) ListMatches(ctx context.Context, offset, limit int) ([]*models.StoredMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM match_results ORDER BY created_at DESC, rank LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMatches(rows)
}

// DashboardStats summarizes the library and history. topSkills bounds the
// skill leaderboard and recent bounds the recent match list.
func (s *SQLiteStorage) DashboardStats(ctx context.Context, topSkills, recent int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	var err error
	var n int64
	if n, err = s.count(ctx, "resumes"); err != nil {
		return nil, err
	}
	stats.TotalResumes = int(n)
	if n, err = s.count(ctx, "job_searches"); err != nil {
		return nil, err
	}
	stats.TotalJobSearches = int(n)
	if n, err = s.count(ctx, "match_results"); err != nil {
		return nil, err
	}
	stats.TotalMatches = int(n)

	var avg sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `SELECT AVG(score) FROM match_results`).Scan(&avg); err != nil {
		return nil, err
	}
	if avg.Valid {
		stats.AverageScore = math.Round(avg.Float64*10) / 10
	}

	if stats.TopSkills, err = s.topSkills(ctx, topSkills); err != nil {
		return nil, err
	}
	if stats.RecentMatches, err = s.ListMatches(ctx, 0, recent); err != nil {
		return nil, err
	}
	return stats, nil
}

// topSkills counts how many stored resumes mention each skill.
func (s *SQLiteStorage) topSkills(ctx context.Context, limit int) ([]models.SkillCount, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT skills FROM resumes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var skills map[string]int
		if raw.Valid && raw.String != "" {
			if err := json.Unmarshal([]byte(raw.String), &skills); err != nil {
				continue
			}
		}
		for skill := range skills {
			counts[skill]++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	top := make([]models.SkillCount, 0, len(counts))
	for skill, c := range counts {
		top = append(top, models.SkillCount{Skill: skill, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Skill < top[j].Skill
	})
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}

func (s *SQLiteStorage) count(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResume(row scanner) (*models.Resume, error) {
	var r models.Resume
	var skillsJSON sql.NullString
	if err := row.Scan(&r.ID, &r.Filename, &r.ContentHash, &r.Text, &skillsJSON, &r.CreatedAt); err != nil {
		return nil, err
	}
	if skillsJSON.Valid && skillsJSON.String != "" {
		if err := json.Unmarshal([]byte(skillsJSON.String), &r.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}
	return &r, nil
}

func collectResumes(rows *sql.Rows) ([]*models.Resume, error) {
	resumes := []*models.Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

func scanJobSearch(row scanner) (*models.JobSearch, error) {
	var js models.JobSearch
	var desc, keywordsJSON, requiredJSON, rolesJSON, experience sql.NullString
	if err := row.Scan(&js.ID, &desc, &keywordsJSON, &requiredJSON, &rolesJSON, &experience,
		&js.ResultCount, &js.CreatedAt); err != nil {
		return nil, err
	}
	js.Description = desc.String
	js.Experience = experience.String
	if rolesJSON.Valid && rolesJSON.String != "" {
		_ = json.Unmarshal([]byte(rolesJSON.String), &js.Roles)
	}
	if keywordsJSON.Valid && keywordsJSON.String != "" {
		_ = json.Unmarshal([]byte(keywordsJSON.String), &js.Keywords)
	}
	if requiredJSON.Valid && requiredJSON.String != "" {
		_ = json.Unmarshal([]byte(requiredJSON.String), &js.RequiredSkills)
	}
	return &js, nil
}

func collectMatches(rows *sql.Rows) ([]*models.StoredMatch, error) {
	matches := []*models.StoredMatch{}
	for rows.Next() {
		var m models.StoredMatch
		var matchedJSON, missingJSON sql.NullString
		if err := rows.Scan(&m.ID, &m.JobSearchID, &m.ResumeID, &m.Filename, &m.Score,
			&matchedJSON, &missingJSON, &m.Rank, &m.CreatedAt); err != nil {
			return nil, err
		}
		if matchedJSON.Valid {
			_ = json.Unmarshal([]byte(matchedJSON.String), &m.MatchedSkills)
		}
		if missingJSON.Valid {
			_ = json.Unmarshal([]byte(missingJSON.String), &m.MissingSkills)
		}
		matches = append(matches, &m)
	}
	return matches, rows.Err()
}
