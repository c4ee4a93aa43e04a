package models

import "time"

// Resume is a stored resume in the library.
type Resume struct {
	ID          string         `json:"id" db:"id"`
	Filename    string         `json:"filename" db:"filename"`
	ContentHash string         `json:"content_hash" db:"content_hash"`
	Text        string         `json:"text,omitempty" db:"text"`
	Skills      map[string]int `json:"skills" db:"skills"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// Document returns the resume as matching input.
func (r *Resume) Document() *Document {
	return &Document{ID: r.ID, Filename: r.Filename, Text: r.Text}
}

// JobSearch is a past job screening.
type JobSearch struct {
	ID             string             `json:"id" db:"id"`
	Description    string             `json:"description,omitempty" db:"description"`
	Keywords       []string           `json:"keywords,omitempty" db:"keywords"`
	RequiredSkills map[string]float64 `json:"required_skills" db:"required_skills"`
	Roles          []string           `json:"roles,omitempty" db:"roles"`
	Experience     string             `json:"experience,omitempty" db:"experience"`
	ResultCount    int                `json:"result_count" db:"result_count"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// StoredMatch is a persisted match result.
type StoredMatch struct {
	ID            string    `json:"id" db:"id"`
	JobSearchID   string    `json:"job_search_id" db:"job_search_id"`
	ResumeID      string    `json:"resume_id,omitempty" db:"resume_id"`
	Filename      string    `json:"filename" db:"filename"`
	Score         float64   `json:"score" db:"score"`
	MatchedSkills []string  `json:"matched_skills" db:"matched_skills"`
	MissingSkills []string  `json:"missing_skills" db:"missing_skills"`
	Rank          int       `json:"rank" db:"rank"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// SkillCount is a skill with how many stored resumes mention it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// DashboardStats summarizes the stored history.
type DashboardStats struct {
	TotalResumes     int            `json:"total_resumes"`
	TotalJobSearches int            `json:"total_job_searches"`
	TotalMatches     int            `json:"total_matches"`
	AverageScore     float64        `json:"average_score"`
	TopSkills        []SkillCount   `json:"top_skills"`
	RecentMatches    []*StoredMatch `json:"recent_matches"`
	StorageBytes     int64          `json:"storage_bytes"`
}
