// Package scoring implements the tiered candidate-job scoring engine.
package scoring

import "encoding/json"

// Default criterion weights applied when a job carries no usable weight config.
const (
	defaultEducationWeight  = 0.25
	defaultExperienceWeight = 0.35
	defaultSkillsWeight     = 0.40
)

// Weights holds the per-criterion weights for combining sub-scores.
// Weights are applied as-is: they are not required to sum to 1 and no
// normalization is performed, so the weighted total can exceed 100 when a
// job's config sums above 1.
type Weights struct {
	Education  float64 `json:"education"`
	Experience float64 `json:"experience"`
	Skills     float64 `json:"skills"`
}

// DefaultWeights returns the fixed default weight triple.
func DefaultWeights() Weights {
	return Weights{
		Education:  defaultEducationWeight,
		Experience: defaultExperienceWeight,
		Skills:     defaultSkillsWeight,
	}
}

// ResolveWeights parses a serialized weight configuration into a usable
// weight triple. An absent, empty, or malformed config yields the defaults;
// a parsed config missing individual keys substitutes the default for only
// the missing keys. Negative values are treated as missing. Never errors.
func ResolveWeights(raw string) Weights {
	weights := DefaultWeights()
	if raw == "" {
		return weights
	}

	var parsed map[string]float64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return weights
	}

	if v, ok := parsed["education"]; ok && v >= 0 {
		weights.Education = v
	}
	if v, ok := parsed["experience"]; ok && v >= 0 {
		weights.Experience = v
	}
	if v, ok := parsed["skills"]; ok && v >= 0 {
		weights.Skills = v
	}

	return weights
}
