package admission

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary groups the keywords that make a comment relevant.
type Vocabulary struct {
	Adjectives []string `yaml:"adjectives"`
	Nouns      []string `yaml:"nouns"`
	Negative   []string `yaml:"negative"`
	Profanity  []string `yaml:"profanity"`
}

// DefaultVocabulary returns the built-in musical, emotional, critical and
// profane word groups.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Adjectives: []string{
			"poetic", "sentimental", "authentic", "catchy", "inspiring",
			"smooth", "dynamic", "soulful", "powerful", "impactful",
			"instrumental", "emotional", "haunting", "nostalgic", "melancholic",
		},
		Nouns: []string{
			"melody", "harmony", "lyrics", "emotion", "arrangement",
			"vibe", "depth", "feeling", "rhythm", "chords",
			"verse", "chorus", "connection", "narrative", "story",
			"meaning", "creativity", "timbre", "tone", "progression",
			"atmosphere", "vocals", "bridge", "groove",
		},
		Negative: []string{
			"boring", "overrated", "awful", "terrible", "annoying",
			"repetitive", "bland", "mediocre", "cringe", "worst",
			"hate", "disappointing", "generic",
		},
		Profanity: []string{
			"shit", "fuck", "crap", "damn", "wtf",
		},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Groups missing from the file
// are left empty.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	var vocab Vocabulary
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	if len(vocab.Keywords()) == 0 {
		return Vocabulary{}, fmt.Errorf("vocabulary %s defines no keywords", path)
	}
	return vocab, nil
}

// Keywords flattens every group plus extra into a lower-cased, de-duplicated
// list, preserving first-seen order.
func (v Vocabulary) Keywords(extra ...string) []string {
	groups := [][]string{v.Adjectives, v.Nouns, v.Negative, v.Profanity, extra}
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, word := range group {
			word = strings.ToLower(strings.TrimSpace(word))
			if word == "" {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
		}
	}
	return out
}
