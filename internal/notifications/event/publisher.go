package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// clientName identifies this service on bus connections.
const clientName = "knapscen-email-notifications"

// flushTimeout bounds the final flush round trip with the bus.
const flushTimeout = 5 * time.Second

// busConn abstracts the subset of *nats.Conn the publisher uses, for
// testability.
type busConn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// dialFunc opens a bus connection. Production uses nats.Connect; tests
// substitute fakes.
type dialFunc func(url string, opts ...nats.Option) (busConn, error)

// NATSPublisher serializes notification events to JSON and publishes them to
// the configured bus subject. The connection is scoped to a single Publish
// call: connect, publish, flush, close.
//
// Like the mail stage, this is a boolean boundary: every failure is logged
// (as a warning, since the mail has already gone out by the time publication
// is attempted) and converted to false.
type NATSPublisher struct {
	cfg    config.NATSConfig
	logger types.Logger
	dial   dialFunc
}

// NewNATSPublisher creates a publisher against the configured NATS server.
func NewNATSPublisher(cfg config.NATSConfig, logger types.Logger) *NATSPublisher {
	return &NATSPublisher{
		cfg:    cfg,
		logger: logger,
		dial: func(url string, opts ...nats.Option) (busConn, error) {
			return nats.Connect(url, opts...)
		},
	}
}

// Publish serializes the event and performs the blocking connect/publish/
// flush/close conversation with the bus. Returns true only when the event
// was flushed to the server.
func (p *NATSPublisher) Publish(ctx context.Context, evt Event) bool {
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Warn("failed to serialize notification event",
			"event_id", evt.ID,
			"error", err.Error(),
		)
		return false
	}

	nc, err := p.dial(p.cfg.Server,
		nats.UserInfo(p.cfg.User, p.cfg.Password.Unmask()),
		nats.Name(clientName),
	)
	if err != nil {
		p.logger.Warn("failed to connect to event bus",
			"server", p.cfg.Server,
			"error", err.Error(),
		)
		return false
	}
	defer nc.Close()

	if err := nc.Publish(p.cfg.Subject, payload); err != nil {
		p.logger.Warn("failed to publish notification event",
			"subject", p.cfg.Subject,
			"event_id", evt.ID,
			"error", err.Error(),
		)
		return false
	}

	// The NATS client requires a deadline on the flush context, and the
	// orchestrator hands us a plain background context on a one-shot run,
	// so the deadline is established here.
	fctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	if err := nc.FlushWithContext(fctx); err != nil {
		p.logger.Warn("failed to flush notification event to bus",
			"subject", p.cfg.Subject,
			"event_id", evt.ID,
			"error", err.Error(),
		)
		return false
	}

	p.logger.Info("notification event published",
		"subject", p.cfg.Subject,
		"event_id", evt.ID,
		"event_type", evt.Type,
	)
	return true
}
