package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"slashes and colon", "AC/DC: Back in Black?", "AC_DC_ Back in Black_"},
		{"plain", "Bohemian Rhapsody", "Bohemian Rhapsody"},
		{"trims dots", "  ..hidden. ", "hidden"},
		{"control chars", "Line\tOne\n", "LineOne"},
		{"empty", "", "untitled"},
		{"only dots", "...", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFileNameTruncatesOnRuneBoundary(t *testing.T) {
	got := SanitizeFileName(strings.Repeat("é", 150))
	if len(got) != maxFileNameBytes {
		t.Fatalf("len = %d, want %d", len(got), maxFileNameBytes)
	}
	if !strings.HasSuffix(got, "é") {
		t.Fatalf("expected truncated name to end on a whole rune, got %q", got[len(got)-4:])
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		minLen int
		want   []string
	}{
		{
			name:   "drops urls and short tokens",
			input:  "Check https://youtu.be/x this Melody, it's great!",
			minLen: 3,
			want:   []string{"check", "this", "melody", "it's", "great"},
		},
		{
			name:   "digits kept",
			input:  "since 1975",
			minLen: 2,
			want:   []string{"since", "1975"},
		},
		{
			name:   "empty",
			input:  "",
			minLen: 1,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input, tt.minLen)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize() = %v, want %v", got, tt.want)
			}
		})
	}
}
