// Package events publishes applicant lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Kind string

const (
	// KindProfileCompleted fires once when a profile first reaches 100%.
	KindProfileCompleted Kind = "profile.completed"
	// KindProfileSubmitted fires after every successful hand-off.
	KindProfileSubmitted Kind = "profile.submitted"
)

// Event is the JSON body of every published message.
type Event struct {
	Kind         Kind      `json:"kind"`
	ApplicantID  string    `json:"applicantId"`
	TotalPercent int       `json:"totalPercent"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close()                               {}

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
	Close()
}

// NATSPublisher publishes events on "{prefix}.{kind}".
type NATSPublisher struct {
	conn   conn
	prefix string
	logger *slog.Logger
}

// Connect dials the NATS server at url.
func Connect(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("crossjob"),
		nats.Timeout(3*time.Second),
		nats.MaxReconnects(5),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, prefix, logger), nil
}

func newNATSPublisher(c conn, prefix string, logger *slog.Logger) *NATSPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{conn: c, prefix: prefix, logger: logger}
}

// Subject returns the subject an event of kind is published on.
func (p *NATSPublisher) Subject(kind Kind) string {
	return p.prefix + "." + string(kind)
}

func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	subject := p.Subject(e.Kind)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing %s: %w", subject, err)
	}
	p.logger.Debug("Event published", "subject", subject, "applicant", e.ApplicantID)
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", "error", err)
	}
	p.conn.Close()
}
