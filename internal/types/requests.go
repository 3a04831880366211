package types

import (
	"github.com/go-playground/validator/v10"
)

// ScoreRequest represents the request to score one resume against one job.
type ScoreRequest struct {
	ResumeID int64 `json:"resume_id" validate:"required,gt=0"`
	JobID    int64 `json:"job_id" validate:"required,gt=0"`
}

// ScoreAllRequest represents the request to score every resume against a job.
type ScoreAllRequest struct {
	JobID int64 `json:"job_id" validate:"required,gt=0"`
}

// CreateJobRequest represents the request to create a job posting.
// WeightConfig is an optional JSON object mapping criterion names
// (education, experience, skills) to non-negative weights.
type CreateJobRequest struct {
	Title          string `json:"title" validate:"required,min=1"`
	Description    string `json:"description" validate:"required,min=1"`
	RequiredSkills string `json:"required_skills,omitempty"`
	WeightConfig   string `json:"weight_config,omitempty"`
}

// UpdateJobRequest represents the request to update a job posting.
type UpdateJobRequest struct {
	Title          string `json:"title" validate:"required,min=1"`
	Description    string `json:"description" validate:"required,min=1"`
	RequiredSkills string `json:"required_skills,omitempty"`
	WeightConfig   string `json:"weight_config,omitempty"`
}

// PutVectorRequest represents the embedding writer's request to store the
// current vector for an entity.
type PutVectorRequest struct {
	Vector []float64 `json:"vector" validate:"required,min=1"`
}

// ScoreResponse is the response for single-pair scoring.
type ScoreResponse struct {
	ResumeID               int64   `json:"resume_id"`
	JobID                  int64   `json:"job_id"`
	TotalScore             float64 `json:"total_score"`
	EducationScore         float64 `json:"education_score"`
	ExperienceScore        float64 `json:"experience_score"`
	SkillsScore            float64 `json:"skills_score"`
	UsedParsedData         bool    `json:"used_parsed_data"`
	UsedSemanticSimilarity bool    `json:"used_semantic_similarity"`
}

// RankedScore is one entry of a batch scoring response.
type RankedScore struct {
	ResumeID        int64   `json:"resume_id"`
	CandidateName   string  `json:"candidate_name"`
	TotalScore      float64 `json:"total_score"`
	EducationScore  float64 `json:"education_score"`
	ExperienceScore float64 `json:"experience_score"`
	SkillsScore     float64 `json:"skills_score"`
}

// ScoreAllResponse is the response for batch scoring, sorted by descending
// total score.
type ScoreAllResponse struct {
	JobID         int64         `json:"job_id"`
	ResumesScored int           `json:"resumes_scored"`
	Scores        []RankedScore `json:"scores"`
}

// Validate validates the ScoreRequest using the validator.
func (r *ScoreRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ScoreAllRequest using the validator.
func (r *ScoreAllRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the PutVectorRequest using the validator.
func (r *PutVectorRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
