package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordEducationScore(t *testing.T) {
	s := NewKeywordScorer()

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"no signals", "warehouse shift supervisor", 50.0},
		{"bachelor only", "Bachelor of Arts in History", 65.0},
		{"bachelor and institution", "Bachelor of Science, State University", 75.0},
		{"master and institution", "Master of Engineering at the Institute of Technology", 80.0},
		{"all degrees capped", "bachelor master phd from a university", 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.EducationScore(tt.text))
		})
	}
}

func TestKeywordExperienceScore(t *testing.T) {
	s := NewKeywordScorer()

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{"no signals", "hobbies: painting", 40.0},
		{"years only", "8 years in finance", 60.0},
		{"experience word", "hands-on experience", 55.0},
		{"worked", "worked at three startups", 50.0},
		{"seniority", "senior developer", 55.0},
		{"projects", "shipped many projects", 50.0},
		{
			"everything capped",
			"10 years of experience, worked as a senior lead on projects",
			100.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.ExperienceScore(tt.text))
		})
	}
}

func TestKeywordSkillsScore(t *testing.T) {
	s := NewKeywordScorer()

	rawText := "Built services in Python and Go, deployed on Docker."

	assert.Equal(t, 100.0, s.SkillsScore(rawText, "python, go"))
	assert.InDelta(t, 66.67, s.SkillsScore(rawText, "python; docker; rust"), 0.01)
	assert.Equal(t, 0.0, s.SkillsScore(rawText, "cobol"))
}

func TestKeywordSkillsScore_EmptyRequired(t *testing.T) {
	s := NewKeywordScorer()
	// Empty or token-free required-skills text is neutral regardless of
	// candidate data.
	assert.Equal(t, 50.0, s.SkillsScore("python expert", ""))
	assert.Equal(t, 50.0, s.SkillsScore("python expert", " ; , \n"))
}
