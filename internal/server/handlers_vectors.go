package server

import (
	"encoding/json"
	"net/http"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// entityExists reports whether the vector's owning entity exists.
func (s *Server) entityExists(r *http.Request, entityType string, id int64) (bool, error) {
	switch entityType {
	case scoring.EntityResume:
		resume, err := s.store.GetResume(r.Context(), id)
		return resume != nil, err
	case scoring.EntityJob:
		job, err := s.store.GetJob(r.Context(), id)
		return job != nil, err
	}
	return false, nil
}

// handlePutVector stores the current embedding vector for an entity on
// behalf of an external embedding writer. The previous vector, if any, is
// replaced in place.
func (s *Server) handlePutVector(w http.ResponseWriter, r *http.Request) {
	entityType := r.PathValue("entity_type")
	if entityType != scoring.EntityResume && entityType != scoring.EntityJob {
		s.errorResponse(w, http.StatusBadRequest, "entity_type must be 'candidate' or 'job'")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var req types.PutVectorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "vector is required and must be non-empty")
		return
	}

	exists, err := s.entityExists(r, entityType, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to check entity: "+err.Error())
		return
	}
	if !exists {
		if entityType == scoring.EntityResume {
			s.typedError(w, &ErrResumeNotFound{ID: id})
		} else {
			s.typedError(w, &ErrJobNotFound{ID: id})
		}
		return
	}

	if err := s.store.UpsertVector(r.Context(), entityType, id, req.Vector); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store vector: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"entity_type": entityType,
		"entity_id":   id,
		"dims":        len(req.Vector),
	})
}

// handleDeleteVector removes a stored embedding, forcing subsequent
// scoring of the entity onto the non-semantic tiers.
func (s *Server) handleDeleteVector(w http.ResponseWriter, r *http.Request) {
	entityType := r.PathValue("entity_type")
	if entityType != scoring.EntityResume && entityType != scoring.EntityJob {
		s.errorResponse(w, http.StatusBadRequest, "entity_type must be 'candidate' or 'job'")
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := s.store.DeleteVector(r.Context(), entityType, id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete vector: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
