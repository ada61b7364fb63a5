// Package notifications delivers ingest run events via ntfy.
//
// NewService returns an ntfy publisher when notifications.ntfy_topic is set
// and a no-op otherwise, so callers publish unconditionally. Publishing
// failures are returned to the caller, which decides whether they matter;
// the ingest orchestrator only logs them.
package notifications
