// Package admission decides whether a comment is kept.
//
// A comment is admitted only when it is a single line, mentions at least one
// vocabulary keyword, and is not a near-copy of a reference (lyrics) line.
// Checks run in that order and stop at the first rejection.
package admission
