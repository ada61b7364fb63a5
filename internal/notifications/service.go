package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tunetalk/internal/config"
)

const userAgent = "tunetalk/0.1.0"

// Event identifies a notification kind.
type Event string

const (
	EventRunCompleted Event = "run_completed"
	EventRunFailed    Event = "run_failed"
	EventTest         Event = "test"
)

// Payload carries event fields. Keys are event specific; see Publish.
type Payload map[string]any

// Service publishes events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: cfg.NotificationTimeout()},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// Publish formats and sends event. Recognised payload keys:
//
//	run_completed: playlist, videos, done, skipped, disabled, failed, admitted, duration
//	run_failed:    playlist, error
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventRunCompleted:
		failed := intValue(payload, "failed")
		body := fmt.Sprintf("Playlist %s: %d done, %d skipped, %d disabled, %d failed; %d comments admitted in %s",
			stringValue(payload, "playlist"),
			intValue(payload, "done"),
			intValue(payload, "skipped"),
			intValue(payload, "disabled"),
			failed,
			intValue(payload, "admitted"),
			durationValue(payload, "duration"),
		)
		msg := message{
			title: "tunetalk - Ingest Complete",
			body:  body,
			tags:  []string{"tunetalk", "ingest", "completed"},
		}
		if failed > 0 {
			msg.title = "tunetalk - Ingest Complete (with errors)"
			msg.tags = []string{"tunetalk", "ingest", "warning"}
		}
		return msg, true
	case EventRunFailed:
		errText := strings.TrimSpace(stringValue(payload, "error"))
		if errText == "" {
			errText = "unknown"
		}
		return message{
			title:    "tunetalk - Ingest Failed",
			body:     fmt.Sprintf("Playlist %s: %s", stringValue(payload, "playlist"), errText),
			tags:     []string{"tunetalk", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "tunetalk - Test",
			body:     "Notification system test",
			tags:     []string{"tunetalk", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func stringValue(payload Payload, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func intValue(payload Payload, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func durationValue(payload Payload, key string) string {
	d, _ := payload[key].(time.Duration)
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	return d.String()
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
