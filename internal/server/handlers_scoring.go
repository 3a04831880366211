package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// handleScore scores one resume against one job and persists the result.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "resume_id and job_id are required and must be positive")
		return
	}

	result, err := s.scorer.Score(r.Context(), req.ResumeID, req.JobID)
	if err != nil {
		s.logger.Error("scoring failed",
			zap.Int64("resume_id", req.ResumeID),
			zap.Int64("job_id", req.JobID),
			zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, scoreResponse(result))
}

// handleScoreAll scores every resume against the given job and returns the
// ranking, best match first.
func (s *Server) handleScoreAll(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "job_id is required and must be positive")
		return
	}

	results, err := s.scorer.ScoreAll(r.Context(), req.JobID)
	if err != nil {
		s.logger.Error("batch scoring failed", zap.Int64("job_id", req.JobID), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := types.ScoreAllResponse{
		JobID:         req.JobID,
		ResumesScored: len(results),
		Scores:        make([]types.RankedScore, 0, len(results)),
	}
	for _, result := range results {
		// Candidate names come straight from the resume records keyed by
		// the scored IDs, so rows persisted by earlier batches cannot
		// displace a name from this one.
		var name string
		if resume, err := s.store.GetResume(r.Context(), result.ResumeID); err == nil && resume != nil && resume.CandidateName != nil {
			name = *resume.CandidateName
		}
		resp.Scores = append(resp.Scores, types.RankedScore{
			ResumeID:        result.ResumeID,
			CandidateName:   name,
			TotalScore:      result.TotalScore,
			EducationScore:  result.EducationScore,
			ExperienceScore: result.ExperienceScore,
			SkillsScore:     result.SkillsScore,
		})
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetScore returns the persisted score for one resume-job pair
// without re-scoring it.
func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	resumeID, err := pathID(r, "resume_id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.store.GetScore(r.Context(), resumeID, jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch score: "+err.Error())
		return
	}
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "No score recorded for this pair")
		return
	}

	s.jsonResponse(w, http.StatusOK, scoreResponse(result))
}

// handleListJobScores returns the persisted ranking for a job.
func (s *Server) handleListJobScores(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch job: "+err.Error())
		return
	}
	if job == nil {
		s.typedError(w, &ErrJobNotFound{ID: jobID})
		return
	}

	limit := queryInt(r, "limit", 100)
	rows, err := s.store.ListScoresByJob(r.Context(), jobID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch scores: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"scores": rows,
	})
}

// handleListResumeScores returns a candidate's persisted scores across jobs.
func (s *Server) handleListResumeScores(w http.ResponseWriter, r *http.Request) {
	resumeID, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch resume: "+err.Error())
		return
	}
	if resume == nil {
		s.typedError(w, &ErrResumeNotFound{ID: resumeID})
		return
	}

	results, err := s.store.ListScoresByResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch scores: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume_id": resumeID,
		"scores":    results,
	})
}

// scoreResponse maps a score result onto the API response. The evidence
// flags describe the tier that produced the total score.
func scoreResponse(result *scoring.ScoreResult) types.ScoreResponse {
	return types.ScoreResponse{
		ResumeID:               result.ResumeID,
		JobID:                  result.JobID,
		TotalScore:             result.TotalScore,
		EducationScore:         result.EducationScore,
		ExperienceScore:        result.ExperienceScore,
		SkillsScore:            result.SkillsScore,
		UsedParsedData:         result.Tier == scoring.TierStructured,
		UsedSemanticSimilarity: result.Tier == scoring.TierSemantic,
	}
}

func queryInt(r *http.Request, name string, defaultValue int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}
