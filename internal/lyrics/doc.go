// Package lyrics fetches song lyrics and keeps them as reference corpora.
//
// Client talks to a lyrics.ovh-compatible API. Cache memoizes the normalized
// lines per (performer, title) pair for the life of the process, collapses
// concurrent lookups for the same pair into one request, and can persist
// successful lookups in an optional Store such as Redis.
package lyrics
