// Package report summarizes loaded comment tables: row counts per table,
// descriptive statistics of comment length, and the most frequent terms and
// bigrams after stopword removal.
package report
