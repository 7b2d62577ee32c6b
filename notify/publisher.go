package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/Tharoon321/events-api/models"
)

// Publisher announces newly stored events to downstream consumers.
type Publisher interface {
	PublishEventCreated(ctx context.Context, event *models.Event) error
	Close() error
}

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) PublishEventCreated(context.Context, *models.Event) error { return nil }
func (Nop) Close() error                                           { return nil }

// JetStream publishes to "<prefix>.created" on a NATS JetStream stream.
type JetStream struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewJetStream connects to url and makes sure a stream covering
// "<prefix>.>" exists.
func NewJetStream(ctx context.Context, url, prefix string) (*JetStream, error) {
	opts := []nats.Option{
		nats.Name("events-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName(prefix),
		Description: "Event ingestion notifications",
		Subjects:    []string{prefix + ".>"},
		MaxAge:      7 * 24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &JetStream{nc: nc, js: js, subject: prefix + ".created"}, nil
}

// StreamName derives a valid stream name from a subject prefix.
func StreamName(prefix string) string {
	return strings.ToUpper(strings.NewReplacer(".", "_", "*", "_", ">", "_").Replace(prefix))
}

func (p *JetStream) PublishEventCreated(ctx context.Context, event *models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = p.js.Publish(ctx, p.subject, data, jetstream.WithMsgID(event.ID.Hex()))
	if err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}
	return nil
}

func (p *JetStream) Close() error {
	return p.nc.Drain()
}
