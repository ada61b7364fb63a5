package youtube

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error reasons reported by the Data API that callers branch on.
const (
	ReasonCommentsDisabled = "commentsDisabled"
	ReasonQuotaExceeded    = "quotaExceeded"
	ReasonVideoNotFound    = "videoNotFound"
	ReasonPlaylistNotFound = "playlistNotFound"
)

// APIError is a non-2xx response from the Data API.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = http.StatusText(e.StatusCode)
	}
	if e.Message == "" {
		return fmt.Sprintf("youtube: %d %s", e.StatusCode, reason)
	}
	return fmt.Sprintf("youtube: %d %s: %s", e.StatusCode, reason, e.Message)
}

// Temporary reports whether the request may succeed if repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsCommentsDisabled reports whether err means the video does not accept comments.
func IsCommentsDisabled(err error) bool {
	return hasReason(err, ReasonCommentsDisabled)
}

// IsQuotaExceeded reports whether the project's daily quota is spent.
func IsQuotaExceeded(err error) bool {
	return hasReason(err, ReasonQuotaExceeded)
}

func hasReason(err error, reason string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Reason == reason
	}
	return false
}

type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		apiErr.Message = envelope.Error.Message
		if len(envelope.Error.Errors) > 0 {
			apiErr.Reason = envelope.Error.Errors[0].Reason
			if apiErr.Message == "" {
				apiErr.Message = envelope.Error.Errors[0].Message
			}
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}
