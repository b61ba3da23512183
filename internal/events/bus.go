package events

import (
	"context"
	"fmt"
	"log/slog"

	"kinship/internal/models"
	"kinship/internal/observability"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topic is the single topic domain events are published on.
const Topic = "domain.events"

// Bus is the in-process transport between committed units of work and the
// notification dispatcher.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

// NewBus builds a Bus over a watermill Go channel with the given output buffer.
func NewBus(buffer int, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(buffer),
	}, watermill.NewSlogLogger(logger))
	return &Bus{pubsub: pubsub, logger: logger}
}

// Release publishes evs in order. Failures are logged and counted and never
// returned, since the work that produced the events is already committed.
func (b *Bus) Release(ctx context.Context, evs []models.DomainEvent) {
	for _, ev := range evs {
		msg, err := Encode(ev)
		if err != nil {
			b.publishFailed(ctx, ev, err)
			continue
		}
		if cid := observability.ExtractCorrelationID(ctx); cid != "" {
			msg.Metadata.Set(string(observability.CorrelationID), cid)
		}
		if err := b.pubsub.Publish(Topic, msg); err != nil {
			b.publishFailed(ctx, ev, err)
			continue
		}
		observability.EventsReleased.WithLabelValues(string(ev.Kind)).Inc()
	}
}

func (b *Bus) publishFailed(ctx context.Context, ev models.DomainEvent, err error) {
	observability.EventPublishErrors.Inc()
	b.logger.ErrorContext(ctx, "failed to release domain event",
		slog.String("kind", string(ev.Kind)),
		slog.Uint64("recipient_id", uint64(ev.RecipientID)),
		slog.String("error", err.Error()),
	)
}

// Subscribe returns the stream of published messages. Each message must be
// acked before the next one is delivered to the same subscriber.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, Topic)
}

// Close stops the underlying pub/sub and closes subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Encode wraps ev in a watermill message with a fresh uuid.
func Encode(ev models.DomainEvent) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal domain event: %w", err)
	}
	return message.NewMessage(uuid.NewString(), payload), nil
}

// Decode reads a domain event from msg.
func Decode(msg *message.Message) (models.DomainEvent, error) {
	var ev models.DomainEvent
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal domain event %s: %w", msg.UUID, err)
	}
	return ev, nil
}
