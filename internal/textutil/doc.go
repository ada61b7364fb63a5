// Package textutil provides text processing utilities for near-duplicate
// detection, tokenization, and filename sanitization.
//
// The primary use cases are:
//   - Normalizing comment and lyric text before comparison
//   - Scoring character-sequence similarity between a comment and lyric lines
//   - Splitting text into word tokens for term statistics
//   - Sanitizing titles for safe use as file names
//
// Similarity uses the longest-matching-block ratio popularised by difflib's
// SequenceMatcher (2*M/T), not edit distance. Normalization lowercases, trims,
// and drops every rune that is neither a word character nor whitespace.
package textutil
