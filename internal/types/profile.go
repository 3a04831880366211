// Package types provides type definitions for structured data used throughout the resume scoring system.
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// EducationEntry represents a single education record extracted from a resume.
type EducationEntry struct {
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"field_of_study,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear int    `json:"graduation_year,omitempty"`
}

// SearchText returns the lower-cased text of the entry used for keyword matching.
func (e EducationEntry) SearchText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Degree, e.FieldOfStudy, e.Institution} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// ExperienceEntry represents a single work experience record extracted from a resume.
type ExperienceEntry struct {
	Title          string   `json:"title"`
	Company        string   `json:"company,omitempty"`
	Description    []string `json:"description,omitempty"`
	DurationMonths int      `json:"duration_months,omitempty"`
}

// SearchText returns the lower-cased text of the entry used for keyword matching.
func (e ExperienceEntry) SearchText() string {
	parts := make([]string, 0, 2+len(e.Description))
	for _, p := range []string{e.Title, e.Company} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, e.Description...)
	return strings.ToLower(strings.Join(parts, " "))
}

// CandidateProfile is a candidate's extracted resume profile.
// Structured fields are optional: a nil or empty Skills map signals that the
// extraction step has not produced structured data and keyword fallback
// scoring must be used instead.
type CandidateProfile struct {
	ResumeID      int64             `json:"resume_id"`
	CandidateName string            `json:"candidate_name,omitempty"`
	Email         string            `json:"email,omitempty"`
	Skills        SkillsByCategory  `json:"skills,omitempty"`
	Education     []EducationEntry  `json:"education,omitempty"`
	Experience    []ExperienceEntry `json:"experience,omitempty"`
	RawText       string            `json:"raw_text,omitempty"`
}

// SkillsByCategory maps a skill category name to the skill names in it.
type SkillsByCategory map[string][]string

// HasStructuredSkills reports whether any structured skill data is present.
func (p *CandidateProfile) HasStructuredSkills() bool {
	for _, names := range p.Skills {
		if len(names) > 0 {
			return true
		}
	}
	return false
}

// FlattenedSkills returns the candidate's skills as a single set of
// lower-cased, trimmed skill names across all categories.
func (p *CandidateProfile) FlattenedSkills() map[string]bool {
	flat := make(map[string]bool)
	for _, names := range p.Skills {
		for _, name := range names {
			name = strings.ToLower(strings.TrimSpace(name))
			if name != "" {
				flat[name] = true
			}
		}
	}
	return flat
}

// ParseSkills decodes a serialized skills mapping. Malformed JSON is treated
// the same as absent data: a nil map and no error.
func ParseSkills(raw []byte) SkillsByCategory {
	if len(raw) == 0 {
		return nil
	}
	var skills SkillsByCategory
	if err := json.Unmarshal(raw, &skills); err != nil {
		return nil
	}
	return skills
}

// ParseEducation decodes a serialized education list, treating malformed
// JSON as absent.
func ParseEducation(raw []byte) []EducationEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []EducationEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// ParseExperience decodes a serialized experience list, treating malformed
// JSON as absent.
func ParseExperience(raw []byte) []ExperienceEntry {
	if len(raw) == 0 {
		return nil
	}
	var entries []ExperienceEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// JobRequirement is a job's scoring-relevant fields.
type JobRequirement struct {
	JobID          int64      `json:"job_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	RequiredSkills string     `json:"required_skills,omitempty"`
	WeightConfig   string     `json:"weight_config,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}
