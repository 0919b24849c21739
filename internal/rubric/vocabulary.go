package rubric

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Vocabulary holds the ingredient terms that signal processing.
// Terms are stored lowercase and matched as plain substrings.
type Vocabulary struct {
	UltraProcessed []string `yaml:"ultra_processed"`
	Processed      []string `yaml:"processed"`
}

// DefaultVocabulary returns the built-in multi-language vocabulary
func DefaultVocabulary() Vocabulary {
	vocab, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic(fmt.Sprintf("rubric: embedded vocabulary is invalid: %v", err))
	}
	return vocab
}

// LoadVocabulary reads a vocabulary YAML file from disk
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("could not read vocabulary file: %w", err)
	}
	return ParseVocabulary(data)
}

// ParseVocabulary decodes and normalizes a vocabulary document.
// Duplicate entries are kept: each listed entry is counted on its own.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var raw Vocabulary
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Vocabulary{}, fmt.Errorf("could not parse vocabulary: %w", err)
	}

	vocab := Vocabulary{
		UltraProcessed: normalizeTerms(raw.UltraProcessed),
		Processed:      normalizeTerms(raw.Processed),
	}
	if len(vocab.UltraProcessed) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary has no ultra_processed terms")
	}
	if len(vocab.Processed) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary has no processed terms")
	}
	return vocab, nil
}

// Marshal renders the vocabulary as YAML
func (v Vocabulary) Marshal() ([]byte, error) {
	return yaml.Marshal(v)
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term != "" {
			out = append(out, term)
		}
	}
	return out
}

// matchTerms returns every term that occurs in haystack, in vocabulary order
func matchTerms(haystack string, terms []string) []string {
	var found []string
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			found = append(found, term)
		}
	}
	return found
}
