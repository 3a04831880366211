package scoring

import "strings"

var institutionKeywords = []string{"university", "college", "institute"}

// KeywordScorer scores education, experience and skills from raw free text
// only. It is the lowest-fidelity tier, used when no structured extraction
// data is available; it is always able to produce a score.
type KeywordScorer struct{}

// NewKeywordScorer creates a raw-text fallback scorer.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{}
}

// EducationScore scores the candidate's raw text. Base 50; +15 for a
// bachelor-level keyword, +20 master, +25 doctorate, +10 for an
// institution-type mention. Capped at 100.
func (s *KeywordScorer) EducationScore(rawText string) float64 {
	text := strings.ToLower(rawText)
	score := 50.0
	if containsAny(text, bachelorKeywords) {
		score += bachelorBonus
	}
	if containsAny(text, masterKeywords) {
		score += masterBonus
	}
	if containsAny(text, doctorateKeywords) {
		score += doctorateBonus
	}
	if containsAny(text, institutionKeywords) {
		score += 10
	}
	return capScore(score)
}

// ExperienceScore scores the candidate's raw text. Base 40; +20 for a
// year mention, +15 for "experience", +10 for worked/working, +15 for a
// seniority keyword, +10 for project mentions. Capped at 100.
func (s *KeywordScorer) ExperienceScore(rawText string) float64 {
	text := strings.ToLower(rawText)
	score := 40.0
	if strings.Contains(text, "year") {
		score += 20
	}
	if strings.Contains(text, "experience") {
		score += 15
	}
	if strings.Contains(text, "worked") || strings.Contains(text, "working") {
		score += 10
	}
	if containsAny(text, seniorityKeywords) {
		score += 15
	}
	if strings.Contains(text, "project") {
		score += 10
	}
	return capScore(score)
}

// SkillsScore scores the fraction of required skill tokens appearing as a
// literal substring anywhere in the candidate's raw text, scaled to 100.
// An empty required-skills text (or one yielding no tokens) returns the
// neutral 50.
func (s *KeywordScorer) SkillsScore(rawText, requiredSkills string) float64 {
	if strings.TrimSpace(requiredSkills) == "" {
		return 50
	}

	required := SplitSkillTokens(requiredSkills, false)
	if len(required) == 0 {
		return 50
	}

	text := strings.ToLower(rawText)
	matched := 0
	for _, token := range required {
		if strings.Contains(text, token) {
			matched++
		}
	}
	return float64(matched) / float64(len(required)) * 100
}
