// Package notify publishes a build-completed event to NATS when a
// notify URL is configured. Notifications are fire-and-forget: the
// build result never depends on the broker being reachable.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/KamilPietrzak/blogbuild/internal/config"
	"github.com/KamilPietrzak/blogbuild/internal/logfields"
)

// ErrNoURL is returned when a NATS publisher is requested without a URL.
var ErrNoURL = errors.New("notify: no NATS URL configured")

// Event is the JSON payload published after every build.
type Event struct {
	BuildID        string    `json:"build_id"`
	Outcome        string    `json:"outcome"`
	StartedAt      time.Time `json:"started_at"`
	DurationMS     int64     `json:"duration_ms"`
	PagesRendered  int       `json:"pages_rendered"`
	PagesConverted int       `json:"pages_converted"`
	BrokenLinks    int       `json:"broken_links"`
	Revision       string    `json:"revision,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher delivers build-completed events.
type Publisher interface {
	PublishBuildCompleted(ctx context.Context, event *Event) error
	Close() error
}

// NewPublisher returns a NATS-backed publisher when a URL is configured
// and a no-op publisher otherwise.
func NewPublisher(cfg config.NotifyConfig) (Publisher, error) {
	if cfg.URL == "" {
		return NoopPublisher{}, nil
	}
	return NewNATSPublisher(cfg)
}

// NoopPublisher discards events. It stands in whenever notifications
// are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuildCompleted(context.Context, *Event) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// NATSPublisher publishes events on a core NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the configured broker.
func NewNATSPublisher(cfg config.NotifyConfig) (*NATSPublisher, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("blogbuild"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	slog.Debug("NATS publisher connected",
		logfields.URL(cfg.URL),
		slog.String("subject", cfg.Subject))

	return &NATSPublisher{conn: conn, subject: cfg.Subject}, nil
}

// PublishBuildCompleted sends one event and flushes the connection so
// delivery failures surface here rather than at Close.
func (p *NATSPublisher) PublishBuildCompleted(ctx context.Context, event *Event) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush connection: %w", err)
	}

	slog.Debug("Published build event",
		slog.String("subject", p.subject),
		logfields.BuildID(event.BuildID),
		logfields.Outcome(event.Outcome))

	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
