package db

import (
	"time"
)

// Resume represents a stored resume record. The structured fields
// (skills/education/experience) are stored as JSONB written by the
// extraction step and parsed into typed containers at profile-load time.
type Resume struct {
	ID            int64      `json:"id"`
	CandidateName *string    `json:"candidate_name,omitempty"`
	Email         *string    `json:"email,omitempty"`
	FileName      string     `json:"file_name"`
	FileHash      *string    `json:"file_hash,omitempty"`
	UploadedAt    time.Time  `json:"uploaded_at"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// IsProcessed reports whether the extraction step has completed for this resume.
func (r *Resume) IsProcessed() bool {
	return r.ProcessedAt != nil
}

// Job represents a stored job posting record.
type Job struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	RequiredSkills string     `json:"required_skills,omitempty"`
	WeightConfig   string     `json:"weight_config,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// JobScoreRow is a persisted score row joined with minimal candidate
// identity fields, as returned by the scores-by-job listing.
type JobScoreRow struct {
	ResumeID        int64     `json:"resume_id"`
	CandidateName   string    `json:"candidate_name"`
	Email           string    `json:"email,omitempty"`
	TotalScore      float64   `json:"total_score"`
	EducationScore  float64   `json:"education_score"`
	ExperienceScore float64   `json:"experience_score"`
	SkillsScore     float64   `json:"skills_score"`
	Tier            string    `json:"tier"`
	ScoredAt        time.Time `json:"scored_at"`
}

// ExtractedProfile holds the extraction collaborator's output for a resume,
// serialized exactly as received. Malformed sections degrade to keyword
// fallback at scoring time rather than failing the write.
type ExtractedProfile struct {
	CandidateName string
	Email         string
	RawText       string
	SkillsJSON    []byte
	EducationJSON []byte
	ExperienceJSON []byte
}
