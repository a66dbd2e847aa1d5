package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mediapick/internal/config"
)

const userAgent = "Mediapick-Go/0.1.0"

// Event identifies a picker milestone worth surfacing to the user.
type Event string

const (
	EventSelectionCompleted Event = "selection_completed"
	EventSelectionCancelled Event = "selection_cancelled"
	EventAlbumSaveFailed    Event = "album_save_failed"
	EventError              Event = "error"
	EventTest               Event = "test"
)

// Payload carries event-specific values keyed by name.
type Payload map[string]any

// Service publishes picker events.
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

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:    topic,
		client:      &http.Client{Timeout: timeout},
		completions: cfg.Notifications.Completions,
		failures:    cfg.Notifications.Failures,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint    string
	client      *http.Client
	completions bool
	failures    bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n == nil {
		return nil
	}
	msg, ok := n.render(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) render(event Event, payload Payload) (message, bool) {
	switch event {
	case EventSelectionCompleted:
		if !n.completions {
			return message{}, false
		}
		count := payloadInt(payload, "count")
		noun := "items"
		if count == 1 {
			noun = "item"
		}
		body := fmt.Sprintf("✅ Delivered %d %s", count, noun)
		if mode := payloadString(payload, "mode"); mode != "" {
			body = fmt.Sprintf("%s from %s", body, mode)
		}
		if saved := payloadInt(payload, "saved"); saved > 0 {
			body = fmt.Sprintf("%s\nSaved to album: %d", body, saved)
		}
		return message{
			title: "Mediapick - Selection Complete",
			body:  body,
			tags:  []string{"mediapick", "selection", "completed"},
		}, true
	case EventAlbumSaveFailed:
		if !n.failures {
			return message{}, false
		}
		album := payloadString(payload, "album")
		if album == "" {
			album = "album"
		}
		return message{
			title:    "Mediapick - Album Save Failed",
			body:     fmt.Sprintf("❌ Could not save to %s: %s", album, orUnknown(payloadString(payload, "error"))),
			tags:     []string{"mediapick", "album", "error"},
			priority: "high",
		}, true
	case EventError:
		if !n.failures {
			return message{}, false
		}
		var builder strings.Builder
		builder.WriteString("❌ Error")
		if label := payloadString(payload, "context"); label != "" {
			builder.WriteString(" with ")
			builder.WriteString(label)
		}
		builder.WriteString(": ")
		builder.WriteString(orUnknown(payloadString(payload, "error")))
		return message{
			title:    "Mediapick - Error",
			body:     builder.String(),
			tags:     []string{"mediapick", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Mediapick - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"mediapick", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
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

func payloadString(p Payload, key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func payloadInt(p Payload, key string) int {
	if p == nil {
		return 0
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
