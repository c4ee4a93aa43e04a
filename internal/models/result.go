package models

// SkillMatch explains which mention satisfied a required skill.
type SkillMatch struct {
	Required   string  `json:"required"`
	Found      string  `json:"found"`
	Similarity float64 `json:"similarity"`
}

// MatchResult is the outcome of screening one resume. MatchedSkills and
// MissingSkills partition the required skills and are sorted.
type MatchResult struct {
	ID             string       `json:"id,omitempty"`
	Filename       string       `json:"filename"`
	Score          float64      `json:"score"`
	MatchedSkills  []string     `json:"matched_skills"`
	MissingSkills  []string     `json:"missing_skills"`
	MatchDetails   []SkillMatch `json:"match_details"`
	NoRequirements bool         `json:"no_requirements,omitempty"`
	Rank           int          `json:"rank"`
}

// ScreenResult is a ranked batch of match results for one job.
type ScreenResult struct {
	JobSearchID    string             `json:"job_search_id,omitempty"`
	RequiredSkills []string           `json:"required_skills"`
	Weights        map[string]float64 `json:"weights"`
	Roles          []string           `json:"roles,omitempty"`
	Experience     string             `json:"experience,omitempty"`
	Results        []*MatchResult     `json:"results"`
	Total          int                `json:"total"`
	QueryTime      int64              `json:"query_time_ms"`
}

// JobAnalysis lists the skills a job requires and how much each weighs,
// along with the job titles it names and the experience it asks for.
type JobAnalysis struct {
	RequiredSkills []string           `json:"required_skills"`
	Weights        map[string]float64 `json:"weights"`
	TotalWeight    float64            `json:"total_weight"`
	Roles          []string           `json:"roles"`
	Experience     string             `json:"experience,omitempty"`
}
