package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSynonymResolver_Defaults(t *testing.T) {
	r := NewSynonymResolver(DefaultSynonymTable())

	tests := []struct {
		a, b     string
		expected bool
	}{
		{"js", "javascript", true},
		{"javascript", "js", true},
		{"js", "es6", true},
		{"js", "java", false},
		{"golang", "go", true},
		{"k8s", "kubernetes", true},
		{"postgres", "postgresql", true},
		{"aws", "amazon web services", true},
		{"python", "ruby", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.AreSynonyms(tt.a, tt.b))
		})
	}
}

func TestSynonymResolver_Reflexive(t *testing.T) {
	r := NewSynonymResolver(DefaultSynonymTable())
	assert.True(t, r.AreSynonyms("python", "python"))
	// Reflexivity holds even for tokens outside the table.
	assert.True(t, r.AreSynonyms("cobol", "cobol"))
	assert.False(t, r.AreSynonyms("", ""))
}

func TestSynonymResolver_Symmetric(t *testing.T) {
	r := NewSynonymResolver(SynonymTable{"javascript": {"js"}})
	assert.Equal(t, r.AreSynonyms("js", "javascript"), r.AreSynonyms("javascript", "js"))
}

func TestSynonymResolver_InjectedTable(t *testing.T) {
	r := NewSynonymResolver(SynonymTable{
		"terraform": {"tf", "hcl"},
	})
	assert.True(t, r.AreSynonyms("tf", "hcl"))
	assert.False(t, r.AreSynonyms("js", "javascript"))
}

func TestSynonymResolver_UnknownTokens(t *testing.T) {
	r := NewSynonymResolver(DefaultSynonymTable())
	assert.False(t, r.AreSynonyms("quantum", "basket weaving"))
}
