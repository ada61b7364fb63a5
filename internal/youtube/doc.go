// Package youtube is a small read-only client for the YouTube Data API v3.
//
// Results are consumed through Pager, an explicit cursor over the API's
// pageToken continuation: PlaylistVideos walks playlistItems in pages of 50
// and CommentThreads walks commentThreads in pages of 100. Requests are paced
// by a client-wide rate limiter, transient failures (429, 5xx, timeouts) are
// retried with bounded exponential backoff, and structured API errors are
// surfaced as *APIError.
package youtube
