package scoring

import "strings"

// SynonymTable maps a canonical skill name to its accepted alias strings.
// The table is injected configuration, not derived from data.
type SynonymTable map[string][]string

// SynonymResolver decides whether two skill tokens denote the same skill.
// Two tokens are synonyms if both appear in the alias closure (canonical name
// plus aliases) of the same table entry. Equivalence is symmetric and
// reflexive by construction.
type SynonymResolver struct {
	// groups maps each known token to the indices of the closures it
	// belongs to. A token may appear in more than one closure.
	groups map[string][]int
	count  int
}

// NewSynonymResolver builds a resolver from a canonical-to-aliases table.
// Tokens are stored lower-cased and trimmed.
func NewSynonymResolver(table SynonymTable) *SynonymResolver {
	r := &SynonymResolver{groups: make(map[string][]int)}
	for canonical, aliases := range table {
		idx := r.count
		r.count++
		r.add(canonical, idx)
		for _, alias := range aliases {
			r.add(alias, idx)
		}
	}
	return r
}

func (r *SynonymResolver) add(token string, group int) {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return
	}
	r.groups[token] = append(r.groups[token], group)
}

// AreSynonyms reports whether two lower-cased, trimmed skill tokens are
// considered equivalent.
func (r *SynonymResolver) AreSynonyms(a, b string) bool {
	if a == b {
		return a != ""
	}
	groupsA, ok := r.groups[a]
	if !ok {
		return false
	}
	groupsB, ok := r.groups[b]
	if !ok {
		return false
	}
	for _, ga := range groupsA {
		for _, gb := range groupsB {
			if ga == gb {
				return true
			}
		}
	}
	return false
}

// DefaultSynonymTable returns the built-in skill alias table, seeded from the
// extraction service's skills ontology.
func DefaultSynonymTable() SynonymTable {
	return SynonymTable{
		"python":     {"py", "python3"},
		"javascript": {"js", "es6", "es2015", "ecmascript"},
		"typescript": {"ts"},
		"java":       {"java8", "java11"},
		"c++":        {"cpp"},
		"c#":         {"csharp"},
		"go":         {"golang"},
		"kubernetes": {"k8s"},
		"postgresql": {"postgres"},
		"mongodb":    {"mongo"},
		"amazon web services": {"aws"},
		"google cloud":        {"gcp", "google cloud platform"},
		"microsoft azure":     {"azure"},
		"node.js":             {"node", "nodejs"},
		"react":               {"reactjs", "react.js"},
		"vue.js":              {"vue", "vuejs"},
		"angular":             {"angularjs"},
		".net":                {"dotnet", "asp.net"},
		"ruby on rails":       {"rails"},
		"machine learning":    {"ml"},
		"deep learning":       {"dl"},
		"natural language processing": {"nlp"},
		"continuous integration":      {"ci/cd", "cicd"},
		"sql server":                  {"mssql"},
		"sass":                        {"scss"},
		"tailwind css":                {"tailwind", "tailwindcss"},
	}
}
