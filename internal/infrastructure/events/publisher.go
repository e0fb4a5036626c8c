package events

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
)

const (
	SubjectCatalogReloaded = "catalog.reloaded"
	SubjectSessionStarted  = "scene.session_started"
)

type CatalogReloaded struct {
	Source   string    `json:"source"`
	Skills   int       `json:"skills"`
	Jobs     int       `json:"jobs"`
	Swapped  bool      `json:"swapped"`
	LoadedAt time.Time `json:"loaded_at"`
}

type SessionStarted struct {
	SessionID string    `json:"session_id"`
	Layout    string    `json:"layout"`
	StartedAt time.Time `json:"started_at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
	Close()
}

// Connect returns a NATS publisher, or a no-op one when url is empty.
func Connect(url, prefix, name string, logger *log.Logger) (Publisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Noop{}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if logger != nil && err != nil {
				logger.Printf("[Events] disconnected | err=%v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			if logger != nil {
				logger.Printf("[Events] reconnected | url=%s", c.ConnectedUrl())
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	return NewNATSPublisher(nc, prefix, logger), nil
}

type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	logger *log.Logger
}

func NewNATSPublisher(nc *nats.Conn, prefix string, logger *log.Logger) *NATSPublisher {
	return &NATSPublisher{nc: nc, prefix: strings.Trim(strings.TrimSpace(prefix), "."), logger: logger}
}

func (p *NATSPublisher) Subject(subject string) string {
	if p.prefix == "" {
		return subject
	}
	return p.prefix + "." + subject
}

// Publish sends v as JSON with the trace context in the message headers.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{Subject: p.Subject(subject), Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	if err := p.nc.PublishMsg(msg); err != nil {
		if p.logger != nil {
			p.logger.Printf("[Events] publish failed | subject=%s err=%v", msg.Subject, err)
		}
		return err
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }
func (Noop) Close()                                     {}

// headerCarrier adapts nats.Msg headers for otel propagation.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
