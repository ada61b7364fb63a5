// Package ingest drives the comment ingestion pipeline.
//
// The Orchestrator walks a playlist strictly in order. For each video it
// checks for an existing output table (skip), fetches the lyrics corpus
// once, pages through top-level comments, filters each comment through the
// admission policy and appends admitted rows to the video's table after
// every page. Comments-disabled videos finish with a header-only table;
// other remote failures abandon the video and the batch moves on.
package ingest
