package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/schemas"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// handleCreateJob creates a job posting. The optional weight config is
// validated against its schema but stored even when malformed; scoring
// substitutes defaults for anything it cannot read.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title and description are required")
		return
	}

	s.warnOnWeightConfig(req.WeightConfig)

	id, err := s.store.CreateJob(r.Context(), req.Title, req.Description, req.RequiredSkills, req.WeightConfig)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create job: "+err.Error())
		return
	}

	s.embedJob(r, id, req.Title+"\n"+req.Description)

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil || job == nil {
		s.jsonResponse(w, http.StatusCreated, map[string]int64{"job_id": id})
		return
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

// handleListJobs lists job postings with optional title filtering.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	opts := db.ListJobsOptions{
		TitleContains: r.URL.Query().Get("title"),
		Limit:         queryInt(r, "limit", 100),
		Offset:        queryInt(r, "offset", 0),
	}

	jobs, err := s.store.ListJobs(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list jobs: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// handleGetJob returns one job posting.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch job: "+err.Error())
		return
	}
	if job == nil {
		s.typedError(w, &ErrJobNotFound{ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, job)
}

// handleUpdateJob replaces a job posting's mutable fields. The stored
// embedding is refreshed since the description may have changed.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "title and description are required")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch job: "+err.Error())
		return
	}
	if job == nil {
		s.typedError(w, &ErrJobNotFound{ID: id})
		return
	}

	s.warnOnWeightConfig(req.WeightConfig)

	if err := s.store.UpdateJob(r.Context(), id, req.Title, req.Description, req.RequiredSkills, req.WeightConfig); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update job: "+err.Error())
		return
	}

	s.embedJob(r, id, req.Title+"\n"+req.Description)

	updated, err := s.store.GetJob(r.Context(), id)
	if err != nil || updated == nil {
		s.jsonResponse(w, http.StatusOK, map[string]int64{"job_id": id})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteJob removes a job along with its scores and vector.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch job: "+err.Error())
		return
	}
	if job == nil {
		s.typedError(w, &ErrJobNotFound{ID: id})
		return
	}

	if err := s.store.DeleteJob(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete job: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// embedJob stores an embedding for the job text best-effort.
func (s *Server) embedJob(r *http.Request, jobID int64, text string) {
	if s.embedder == nil {
		return
	}
	vector, err := s.embedder.Embed(r.Context(), text)
	if err != nil {
		s.logger.Warn("job embedding failed", zap.Int64("job_id", jobID), zap.Error(err))
		return
	}
	if err := s.store.UpsertVector(r.Context(), scoring.EntityJob, jobID, vector); err != nil {
		s.logger.Error("failed to store job vector", zap.Int64("job_id", jobID), zap.Error(err))
	}
}

// warnOnWeightConfig validates a weight config document, logging failures.
func (s *Server) warnOnWeightConfig(weightConfig string) {
	if weightConfig == "" {
		return
	}
	if err := schemas.ValidateWeightConfig(weightConfig); err != nil {
		s.logger.Warn("weight config failed schema validation", zap.Error(err))
	}
}
