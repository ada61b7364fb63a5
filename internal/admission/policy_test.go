package admission

import (
	"errors"
	"strings"
	"testing"
)

func mustPolicy(t *testing.T, keywords ...string) *Policy {
	t.Helper()
	policy, err := NewPolicy(keywords, 0.8)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	return policy
}

func TestEvaluate(t *testing.T) {
	policy := mustPolicy(t, "melody", "rhythm", "soulful")
	lyrics := []string{"is this the real life", "is this just fantasy"}

	tests := []struct {
		name      string
		text      string
		reference []string
		want      Reason
	}{
		{"multiline rejected", "great song\nreminds me of summer", nil, ReasonMultiline},
		{"multiline with keyword rejected", "the melody\nthe rhythm", nil, ReasonMultiline},
		{"carriage return rejected", "melody\r\nline two", nil, ReasonMultiline},
		{"no keyword rejected", "cool", nil, ReasonNoKeyword},
		{"keyword admitted", "this melody is so soulful", nil, ReasonAdmitted},
		{"case insensitive", "That RHYTHM section!", nil, ReasonAdmitted},
		{"substring match", "so many melodyline ideas", nil, ReasonAdmitted},
		{"outer newline trimmed", "\n  the melody here  \n", nil, ReasonAdmitted},
		{"lyric echo rejected", "Is this the real life? melody", []string{"is this the real life melody"}, ReasonEcho},
		{"original with lyrics", "the melody after the intro is unreal", lyrics, ReasonAdmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Evaluate(tt.text, tt.reference)
			if got.Reason != tt.want {
				t.Fatalf("Evaluate(%q) reason = %q, want %q", tt.text, got.Reason, tt.want)
			}
			if got.Admitted != (tt.want == ReasonAdmitted) {
				t.Fatalf("Evaluate(%q) admitted = %v for reason %q", tt.text, got.Admitted, got.Reason)
			}
			if policy.Admit(tt.text, tt.reference) != got.Admitted {
				t.Fatal("Admit disagrees with Evaluate")
			}
		})
	}
}

func TestMultilineRejectedRegardlessOfOtherChecks(t *testing.T) {
	policy := mustPolicy(t, "summer")
	if policy.Admit("great song\nreminds me of summer", nil) {
		t.Fatal("multi-line comment must be rejected")
	}
}

func TestNewPolicyQuotesKeywords(t *testing.T) {
	policy := mustPolicy(t, "c++", "a.b")
	if !policy.Admit("I love c++ riffs", nil) {
		t.Fatal("expected literal c++ to match")
	}
	if policy.Admit("axb", nil) {
		t.Fatal("dot must be matched literally")
	}
	if !strings.HasPrefix(policy.Pattern(), "(?i)(") {
		t.Fatalf("unexpected pattern %q", policy.Pattern())
	}
}

func TestNewPolicyRequiresKeywords(t *testing.T) {
	_, err := NewPolicy([]string{"", "  "}, 0.8)
	if !errors.Is(err, ErrNoKeywords) {
		t.Fatalf("expected ErrNoKeywords, got %v", err)
	}
}

func TestNewPolicyThresholdFallback(t *testing.T) {
	policy, err := NewPolicy([]string{"melody"}, 0)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	if policy.Threshold() != 0.8 {
		t.Fatalf("expected default threshold, got %v", policy.Threshold())
	}
}

func TestDefaultVocabularyCoversAllGroups(t *testing.T) {
	vocab := DefaultVocabulary()
	policy, err := NewPolicy(vocab.Keywords(), 0.8)
	if err != nil {
		t.Fatalf("NewPolicy: %v", err)
	}
	for _, text := range []string{
		"this melody is so soulful",
		"honestly so overrated",
		"damn that bass",
		"the chorus hits hard",
	} {
		if !policy.Admit(text, nil) {
			t.Errorf("expected %q to be admitted by default vocabulary", text)
		}
	}
	if policy.Admit("first!", nil) {
		t.Error("expected generic comment to be rejected")
	}
}
