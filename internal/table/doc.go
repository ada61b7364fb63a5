// Package table persists admitted comments as one CSV file per video and
// loads those files back for downstream analysis.
//
// A finished table is itself the completion marker for its video: the ingest
// orchestrator skips any video whose table already exists. Tables are built
// under a ".partial" name and renamed into place only when the video is
// finished, so an interrupted run never leaves behind a file that looks
// complete.
package table
