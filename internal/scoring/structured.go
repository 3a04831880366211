package scoring

import (
	"strings"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// Keyword classes for education and experience heuristics. Matching is
// case-insensitive substring membership against the entry text.
var (
	bachelorKeywords  = []string{"bachelor", "b.s", "b.a", "bsc", "beng", "undergraduate"}
	masterKeywords    = []string{"master", "m.s", "m.a", "msc", "mba", "postgraduate"}
	doctorateKeywords = []string{"phd", "ph.d", "doctorate", "doctoral"}
	seniorityKeywords = []string{"senior", "lead", "principal", "architect"}
	managementKeywords = []string{"manager", "director"}
)

// Score bonuses for degree levels; each is awarded at most once.
const (
	bachelorBonus  = 15.0
	masterBonus    = 20.0
	doctorateBonus = 25.0
)

// Defaults holds the sub-scores returned when a structured field is absent.
// The education default differs by call path: 50 on the weighted-total path,
// 60 on the semantic breakdown path. Both values come from the historical
// behavior of the two paths and are intentionally not unified.
type Defaults struct {
	Education  float64
	Experience float64
}

// WeightedPathDefaults are the absent-field defaults used when the weighted
// total is computed from the sub-scores.
func WeightedPathDefaults() Defaults {
	return Defaults{Education: 50, Experience: 40}
}

// BreakdownPathDefaults are the absent-field defaults used when sub-scores
// are computed only for display alongside a semantic total.
func BreakdownPathDefaults() Defaults {
	return Defaults{Education: 60, Experience: 50}
}

// StructuredScorer scores education, experience and skills from structured
// (already-extracted) candidate data against job requirements. It operates
// only when the candidate's structured skills data is present and non-empty;
// the orchestrator falls back to the keyword scorer otherwise.
type StructuredScorer struct {
	synonyms *SynonymResolver
}

// NewStructuredScorer creates a scorer using the given synonym resolver.
func NewStructuredScorer(synonyms *SynonymResolver) *StructuredScorer {
	return &StructuredScorer{synonyms: synonyms}
}

// EducationScore scores the structured education entries. Base 50; for each
// degree level present anywhere in the entries a one-time bonus is added
// (+15 bachelor, +20 master, +25 doctorate), capped at 100. An absent or
// empty entry list returns the path default.
func (s *StructuredScorer) EducationScore(entries []types.EducationEntry, defaults Defaults) float64 {
	if len(entries) == 0 {
		return defaults.Education
	}

	score := 50.0
	var hasBachelor, hasMaster, hasDoctorate bool
	for _, entry := range entries {
		text := entry.SearchText()
		if !hasBachelor && containsAny(text, bachelorKeywords) {
			hasBachelor = true
			score += bachelorBonus
		}
		if !hasMaster && containsAny(text, masterKeywords) {
			hasMaster = true
			score += masterBonus
		}
		if !hasDoctorate && containsAny(text, doctorateKeywords) {
			hasDoctorate = true
			score += doctorateBonus
		}
	}
	return capScore(score)
}

// ExperienceScore scores the structured experience entries. Base 40 plus
// min(entries*10, 30) for breadth, +10 per entry mentioning a seniority
// keyword or +8 per entry mentioning a management keyword, capped at 100.
// An absent or empty entry list returns the path default.
func (s *StructuredScorer) ExperienceScore(entries []types.ExperienceEntry, defaults Defaults) float64 {
	if len(entries) == 0 {
		return defaults.Experience
	}

	score := 40.0

	breadth := float64(len(entries)) * 10
	if breadth > 30 {
		breadth = 30
	}
	score += breadth

	for _, entry := range entries {
		text := entry.SearchText()
		switch {
		case containsAny(text, seniorityKeywords):
			score += 10
		case containsAny(text, managementKeywords):
			score += 8
		}
	}
	return capScore(score)
}

// SkillsScore scores the candidate's flattened skill set against the job's
// required-skills text. A required token matches on exact equality,
// substring containment in either direction, or synonym equivalence.
// An empty required-skills text (or one that yields no tokens) returns the
// neutral 50 since there is no basis to score.
func (s *StructuredScorer) SkillsScore(profile *types.CandidateProfile, requiredSkills string) float64 {
	if strings.TrimSpace(requiredSkills) == "" {
		return 50
	}

	required := SplitSkillTokens(requiredSkills, true)
	if len(required) == 0 {
		return 50
	}

	candidateSkills := profile.FlattenedSkills()

	matched := 0
	for _, token := range required {
		if s.matchesAny(token, candidateSkills) {
			matched++
		}
	}
	return float64(matched) / float64(len(required)) * 100
}

func (s *StructuredScorer) matchesAny(required string, candidateSkills map[string]bool) bool {
	if candidateSkills[required] {
		return true
	}
	for skill := range candidateSkills {
		if strings.Contains(skill, required) || strings.Contains(required, skill) {
			return true
		}
		if s.synonyms.AreSynonyms(required, skill) {
			return true
		}
	}
	return false
}

// SplitSkillTokens splits a required-skills text into trimmed, lower-cased
// tokens, discarding empties. Delimiters are comma, semicolon and newline;
// pipe is additionally accepted when includePipe is set (the structured
// matching path accepts it, the keyword fallback does not).
func SplitSkillTokens(text string, includePipe bool) []string {
	splitter := func(r rune) bool {
		if r == ',' || r == ';' || r == '\n' {
			return true
		}
		return includePipe && r == '|'
	}

	var tokens []string
	for _, part := range strings.FieldsFunc(text, splitter) {
		token := strings.ToLower(strings.TrimSpace(part))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func capScore(score float64) float64 {
	if score > 100 {
		return 100
	}
	return score
}
