package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/extract"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/schemas"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

// maxUploadBytes bounds resume uploads.
const maxUploadBytes = 10 << 20

// UploadResponse represents the response for resume uploads.
type UploadResponse struct {
	ResumeID  int64  `json:"resume_id"`
	FileName  string `json:"file_name"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Processed bool   `json:"processed"`
}

// handleUploadResume accepts a multipart resume upload, stores the record,
// and runs parsing, extraction and embedding best-effort. A collaborator
// failure leaves the resume unprocessed; scoring then falls back to lower
// tiers instead of failing.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A 'file' form field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read upload: "+err.Error())
		return
	}
	if len(content) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	}

	sum := sha256.Sum256(content)
	fileHash := hex.EncodeToString(sum[:])

	resumeID, created, err := s.store.CreateResume(r.Context(), header.Filename, &fileHash)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store resume: "+err.Error())
		return
	}

	if !created {
		s.logger.Info("duplicate resume upload",
			zap.Int64("resume_id", resumeID),
			zap.String("file_name", header.Filename))
		processed := false
		if existing, err := s.store.GetResume(r.Context(), resumeID); err == nil && existing != nil {
			processed = existing.IsProcessed()
		}
		s.jsonResponse(w, http.StatusOK, UploadResponse{
			ResumeID:  resumeID,
			FileName:  header.Filename,
			Duplicate: true,
			Processed: processed,
		})
		return
	}

	processed := s.enrichResume(r.Context(), resumeID, header.Filename, content)

	s.jsonResponse(w, http.StatusCreated, UploadResponse{
		ResumeID:  resumeID,
		FileName:  header.Filename,
		Processed: processed,
	})
}

// enrichResume runs the parse, extract and embed steps. Each step failing
// is logged and stops the chain; earlier results are still persisted.
func (s *Server) enrichResume(ctx context.Context, resumeID int64, fileName string, content []byte) bool {
	if s.parser == nil {
		return false
	}

	text, err := s.parser.Parse(ctx, fileName, content)
	if err != nil {
		s.logger.Warn("resume parsing failed",
			zap.Int64("resume_id", resumeID), zap.Error(err))
		return false
	}

	fields, err := s.parser.Extract(ctx, text)
	if err != nil {
		s.logger.Warn("field extraction failed",
			zap.Int64("resume_id", resumeID), zap.Error(err))
		fields = &extract.ExtractedFields{}
	}

	s.warnOnProfileShape(resumeID, fields)

	profile := db.ExtractedProfile{
		CandidateName:  fields.CandidateName,
		Email:          fields.Email,
		RawText:        text,
		SkillsJSON:     fields.Skills,
		EducationJSON:  fields.Education,
		ExperienceJSON: fields.Experience,
	}
	if err := s.store.SaveExtractedProfile(ctx, resumeID, profile); err != nil {
		s.logger.Error("failed to save extracted profile",
			zap.Int64("resume_id", resumeID), zap.Error(err))
		return false
	}

	if s.embedder != nil {
		vector, err := s.embedder.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("resume embedding failed",
				zap.Int64("resume_id", resumeID), zap.Error(err))
		} else if err := s.store.UpsertVector(ctx, scoring.EntityResume, resumeID, vector); err != nil {
			s.logger.Error("failed to store resume vector",
				zap.Int64("resume_id", resumeID), zap.Error(err))
		}
	}

	return true
}

// warnOnProfileShape validates the extracted profile against its schema.
// Validation is advisory; a malformed profile is stored anyway and the
// affected scoring tiers degrade per field.
func (s *Server) warnOnProfileShape(resumeID int64, fields *extract.ExtractedFields) {
	doc, err := profileDocument(fields)
	if err != nil {
		return
	}
	if err := schemas.ValidateExtractedProfile(doc); err != nil {
		s.logger.Warn("extracted profile failed schema validation",
			zap.Int64("resume_id", resumeID), zap.Error(err))
	}
}

// profileDocument rebuilds the extraction output as one JSON document for
// schema validation. Absent sub-documents are omitted.
func profileDocument(fields *extract.ExtractedFields) (string, error) {
	doc := map[string]any{
		"candidate_name": fields.CandidateName,
		"email":          fields.Email,
	}
	if len(fields.Skills) > 0 {
		doc["skills"] = fields.Skills
	}
	if len(fields.Education) > 0 {
		doc["education"] = fields.Education
	}
	if len(fields.Experience) > 0 {
		doc["experience"] = fields.Experience
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// handleListResumes lists resume records with optional filters.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	opts := db.ListResumesOptions{
		ProcessedOnly: r.URL.Query().Get("processed") == "true",
		Limit:         queryInt(r, "limit", 100),
		Offset:        queryInt(r, "offset", 0),
	}
	if email := r.URL.Query().Get("email"); email != "" {
		opts.Email = &email
	}

	resumes, err := s.store.ListResumes(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list resumes: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": resumes})
}

// handleGetResume returns one resume record.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch resume: "+err.Error())
		return
	}
	if resume == nil {
		s.typedError(w, &ErrResumeNotFound{ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, resume)
}

// handleDeleteResume removes a resume along with its scores and vector.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to fetch resume: "+err.Error())
		return
	}
	if resume == nil {
		s.typedError(w, &ErrResumeNotFound{ID: id})
		return
	}

	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete resume: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
