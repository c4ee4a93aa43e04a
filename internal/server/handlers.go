package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/screener/internal/models"
	"github.com/hyperjump/screener/internal/ranking"
	"github.com/hyperjump/screener/internal/storage"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	var job models.JobSpec
	if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	analysis, err := s.engine.Analyze(job)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, analysis)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req models.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondErr(w, err)
		return
	}
	s.logger.Debug("match request", zap.Int("resumes", len(req.Resumes)))
	s.screen(w, r, req.Job, req.Resumes, true)
}

func (s *Server) handleMatchUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(s.config.Matching.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	job, err := jobFromForm(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	docs, err := s.documentsFromForm(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.logger.Debug("match upload request", zap.Int("files", len(docs)))
	s.screen(w, r, job, docs, true)
}

// jobFromForm reads the job from a JSON "job" field, or from plain
// "description" and comma-separated "keywords" fields.
func jobFromForm(r *http.Request) (models.JobSpec, error) {
	var job models.JobSpec
	if raw := r.FormValue("job"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return job, &models.InvalidInputError{Field: "job", Message: "job must be a JSON object", Cause: err}
		}
		return job, nil
	}
	job.Description = r.FormValue("description")
	if kw := r.FormValue("keywords"); kw != "" {
		for _, k := range strings.Split(kw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				job.Keywords = append(job.Keywords, k)
			}
		}
	}
	return job, nil
}

func (s *Server) documentsFromForm(r *http.Request) ([]*models.Document, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		return nil, &models.InvalidInputError{Field: "files", Message: "at least one file required"}
	}
	headers := r.MultipartForm.File["files"]
	docs := make([]*models.Document, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
		}
		text, err := s.indexer.ExtractBytes(fh.Filename, data)
		if err != nil {
			return nil, &models.InvalidInputError{Field: "files", Message: fh.Filename + ": " + err.Error(), Cause: err}
		}
		docs = append(docs, &models.Document{Filename: fh.Filename, Text: text})
	}
	return docs, nil
}

type libraryMatchRequest struct {
	Job   models.JobSpec `json:"job"`
	Query string         `json:"query,omitempty"`
	Fuzzy bool           `json:"fuzzy,omitempty"`
	Limit int            `json:"limit,omitempty"`
}

// handleLibraryMatch screens stored resumes, optionally only those matching
// a free-text query.
func (s *Server) handleLibraryMatch(w http.ResponseWriter, r *http.Request) {
	var req libraryMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Job.Validate(); err != nil {
		s.respondErr(w, err)
		return
	}
	ctx := r.Context()
	var (
		resumes []*models.Resume
		err     error
	)
	if strings.TrimSpace(req.Query) != "" {
		resumes, err = s.searchResumes(ctx, req.Query, req.Fuzzy, clampLimit(req.Limit, maxPageSize))
	} else {
		resumes, err = s.allResumes(ctx, req.Limit)
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}
	docs := make([]*models.Document, len(resumes))
	for i, res := range resumes {
		docs[i] = res.Document()
	}
	s.logger.Debug("library match request", zap.String("query", req.Query), zap.Int("resumes", len(docs)))
	s.screen(w, r, req.Job, docs, false)
}

// screen runs a batch, applies min_score and limit, and stores the outcome
// when the request asks for it. Storage failures are logged, never returned.
func (s *Server) screen(w http.ResponseWriter, r *http.Request, job models.JobSpec, docs []*models.Document, storeResumes bool) {
	ctx := r.Context()
	minScore, err := s.minScore(r)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	save := queryBool(r, "save")
	if save && storeResumes {
		s.storeResumes(ctx, docs)
	}

	result, err := s.engine.Screen(ctx, job, docs)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	result.Results = ranking.FilterByMinScore(result.Results, minScore)
	result.Total = len(result.Results)
	if save {
		s.recordSearch(ctx, job, result)
	}
	result.Results = ranking.TopN(result.Results, queryInt(r, "limit", 0))
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) storeResumes(ctx context.Context, docs []*models.Document) {
	for _, doc := range docs {
		res, _, err := s.indexer.AddResume(ctx, doc.ID, doc.Filename, doc.Text)
		if err != nil {
			s.logger.Warn("failed to store resume", zap.String("filename", doc.Filename), zap.Error(err))
			continue
		}
		doc.ID = res.ID
	}
}

func (s *Server) recordSearch(ctx context.Context, job models.JobSpec, result *models.ScreenResult) {
	js := &models.JobSearch{
		Description:    job.Description,
		Keywords:       job.Keywords,
		RequiredSkills: result.Weights,
		Roles:          result.Roles,
		Experience:     result.Experience,
		ResultCount:    len(result.Results),
	}
	if err := s.storage.SaveJobSearch(ctx, js); err != nil {
		s.logger.Warn("failed to store job search", zap.Error(err))
		return
	}
	if err := s.storage.SaveMatches(ctx, js.ID, result.Results); err != nil {
		s.logger.Warn("failed to store matches", zap.String("job_search_id", js.ID), zap.Error(err))
	}
	result.JobSearchID = js.ID
}

func (s *Server) minScore(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("min_score")
	if raw == "" {
		return s.config.Matching.MinScore, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 100 {
		return 0, &models.InvalidInputError{Field: "min_score", Message: "must be a number in [0, 100]", Cause: err}
	}
	return v, nil
}

func (s *Server) searchResumes(ctx context.Context, query string, fuzzy bool, limit int) ([]*models.Resume, error) {
	if s.library == nil {
		return nil, &models.InvalidInputError{Field: "query", Message: "resume search is not enabled"}
	}
	hits, err := s.library.Search(ctx, query, limit, fuzzy)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
	}
	found, err := s.storage.GetResumes(ctx, ids)
	if err != nil {
		return nil, err
	}
	// keep relevance order
	byID := make(map[string]*models.Resume, len(found))
	for _, res := range found {
		byID[res.ID] = res
	}
	out := make([]*models.Resume, 0, len(found))
	for _, id := range ids {
		if res, ok := byID[id]; ok {
			out = append(out, res)
		}
	}
	return out, nil
}

// allResumes pages through the whole library, stopping at limit when positive.
func (s *Server) allResumes(ctx context.Context, limit int) ([]*models.Resume, error) {
	var out []*models.Resume
	for offset := 0; ; offset += maxPageSize {
		page, err := s.storage.ListResumes(ctx, offset, maxPageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if limit > 0 && len(out) >= limit {
			return out[:limit], nil
		}
		if len(page) < maxPageSize {
			return out, nil
		}
	}
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := clampLimit(queryInt(r, "limit", defaultPageSize), maxPageSize)
	var (
		resumes []*models.Resume
		err     error
	)
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		resumes, err = s.searchResumes(ctx, q, queryBool(r, "fuzzy"), limit)
	} else {
		resumes, err = s.storage.ListResumes(ctx, queryInt(r, "offset", 0), limit)
	}
	if err != nil {
		s.respondErr(w, err)
		return
	}
	total, err := s.storage.CountResumes(ctx)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	summaries := make([]*models.Resume, len(resumes))
	for i, res := range resumes {
		c := *res
		c.Text = ""
		summaries[i] = &c
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"resumes": summaries, "total": total})
}

// handleCreateResume adds resumes to the library, from a JSON document or
// multipart "files".
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var docs []*models.Document
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		maxBytes := int64(s.config.Matching.MaxUploadMB) << 20
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		var err error
		if docs, err = s.documentsFromForm(r); err != nil {
			s.respondErr(w, err)
			return
		}
	} else {
		var doc models.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := models.ValidateDocument(&doc); err != nil {
			s.respondErr(w, err)
			return
		}
		docs = []*models.Document{&doc}
	}

	out := make([]*models.Resume, 0, len(docs))
	status := http.StatusOK
	for _, doc := range docs {
		res, created, err := s.indexer.AddResume(ctx, doc.ID, doc.Filename, doc.Text)
		if err != nil {
			s.respondErr(w, err)
			return
		}
		if created {
			status = http.StatusCreated
		}
		out = append(out, res)
	}
	if len(out) == 1 {
		s.respondJSON(w, status, out[0])
		return
	}
	s.respondJSON(w, status, map[string]interface{}{"resumes": out})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.storage.GetResume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete resume request", zap.String("id", id))
	if err := s.indexer.DeleteResume(r.Context(), id); err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListJobSearches(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(queryInt(r, "limit", defaultPageSize), maxPageSize)
	searches, err := s.storage.ListJobSearches(r.Context(), queryInt(r, "offset", 0), limit)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"job_searches": searches})
}

func (s *Server) handleJobSearchMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	js, err := s.storage.GetJobSearch(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.respondErr(w, err)
		return
	}
	matches, err := s.storage.ListMatchesByJob(ctx, js.ID)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"job_search": js, "matches": matches})
}

func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(queryInt(r, "limit", defaultPageSize), maxPageSize)
	matches, err := s.storage.ListMatches(r.Context(), queryInt(r, "offset", 0), limit)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	top := clampLimit(queryInt(r, "top", 10), 100)
	recent := clampLimit(queryInt(r, "recent", 10), 100)
	stats, err := s.storage.DashboardStats(r.Context(), top, recent)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	diskBytes, err := storage.DiskUsageBytes(s.config.Storage.DatabasePath, s.config.Storage.LibraryIndexPath)
	if err != nil {
		s.logger.Warn("dashboard: disk usage failed", zap.Error(err))
	} else {
		stats.StorageBytes = diskBytes
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"vocabulary_size": s.engine.Vocabulary().Len(),
	})
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

func clampLimit(n, ceiling int) int {
	if n <= 0 {
		return defaultPageSize
	}
	if n > ceiling {
		return ceiling
	}
	return n
}

// respondErr maps err to a status: invalid input 400, missing record 404,
// cancelled request 503, anything else 500.
func (s *Server) respondErr(w http.ResponseWriter, err error) {
	var invalid *models.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		s.respondError(w, http.StatusBadRequest, invalid.Error())
	case errors.Is(err, storage.ErrNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.respondError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
