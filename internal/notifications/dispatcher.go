package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"kinship/internal/events"
	"kinship/internal/models"
	"kinship/internal/observability"
	"kinship/internal/repository"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/thejerf/suture/v4"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const operationPersist = "notification.persist"

// Source is the stream of released domain events.
type Source interface {
	Subscribe(ctx context.Context) (<-chan *message.Message, error)
}

// Publisher pushes a persisted notification to realtime listeners.
type Publisher interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// Dispatcher consumes domain events and persists one notification per event,
// each in its own transaction. It runs as a supervised service.
//
// The subscription is taken when the dispatcher is built and outlives Serve,
// so events released before the supervisor starts it, or while it is backing
// off after a failure, wait in the subscription instead of being lost.
type Dispatcher struct {
	msgs      <-chan *message.Message
	subErr    error
	db        *gorm.DB
	publisher Publisher
	logger    *slog.Logger
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewDispatcher subscribes to source and wires a dispatcher. The subscription
// ends when source is closed. source may be nil for callers that only use
// Handle, and publisher may be nil.
func NewDispatcher(source Source, db *gorm.DB, publisher Publisher, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		db:        db,
		publisher: publisher,
		logger:    logger,
		timeout:   10 * time.Second,
	}
	if source == nil {
		d.subErr = errNoSource
		return d
	}
	d.msgs, d.subErr = source.Subscribe(context.Background())
	return d
}

var errNoSource = errors.New("notification dispatcher has no event source")

func (d *Dispatcher) String() string { return "notification dispatcher" }

// Serve implements suture.Service. Every message is acked once it has been
// handed to a worker, so a failed event is never redelivered.
// A closed source stops the service for good.
func (d *Dispatcher) Serve(ctx context.Context) error {
	if d.subErr != nil {
		return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, d.subErr)
	}
	defer d.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-d.msgs:
			if !ok {
				return suture.ErrDoNotRestart
			}
			d.dispatch(ctx, msg)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := events.Decode(msg)
	if err != nil {
		observability.NotificationsFailed.WithLabelValues("unknown").Inc()
		observability.LogAsyncOperationError(ctx, operationPersist, err, map[string]interface{}{
			"message_id": msg.UUID,
		})
		return
	}

	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	if cid := msg.Metadata.Get(string(observability.CorrelationID)); cid != "" {
		hctx = observability.WithCorrelationID(hctx, cid)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()
		_, _ = d.Handle(hctx, ev)
	}()
}

// Handle persists ev and then publishes it to the recipient's channel. A
// persistence failure is returned as DEPENDENCY_FAILURE after being logged
// and counted; it never affects other events.
func (d *Dispatcher) Handle(ctx context.Context, ev models.DomainEvent) (*models.Notification, error) {
	span, ctx := observability.NewSpan(ctx, operationPersist,
		attribute.String("event.kind", string(ev.Kind)),
		attribute.Int("event.recipient_id", int(ev.RecipientID)),
	)
	defer span.End()

	fields := map[string]interface{}{
		"kind":         string(ev.Kind),
		"recipient_id": ev.RecipientID,
		"actor_id":     ev.ActorID,
	}

	n, err := d.persist(ctx, ev)
	if err != nil {
		wrapped := models.NewDependencyFailureError("failed to persist notification", err)
		span.SetError(wrapped)
		observability.NotificationsFailed.WithLabelValues(string(ev.Kind)).Inc()
		observability.LogAsyncOperationError(ctx, operationPersist, wrapped, fields)
		return nil, wrapped
	}

	observability.NotificationsPersisted.WithLabelValues(string(ev.Kind)).Inc()
	if !ev.OccurredAt.IsZero() {
		observability.NotificationDispatchLatency.Observe(time.Since(ev.OccurredAt).Seconds())
	}
	fields["notification_id"] = n.ID
	observability.LogAsyncOperationEnd(ctx, operationPersist, fields)

	d.publish(ctx, n)
	return n, nil
}

func (d *Dispatcher) persist(ctx context.Context, ev models.DomainEvent) (*models.Notification, error) {
	n := &models.Notification{
		RecipientID: ev.RecipientID,
		NotifierID:  ev.ActorID,
		Kind:        ev.Kind,
		Message:     ev.Message,
		Link:        ev.Link,
		CreatedAt:   ev.OccurredAt,
	}
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		if _, err := users.GetByID(ctx, ev.RecipientID); err != nil {
			return err
		}
		if ev.ActorID != ev.RecipientID {
			if _, err := users.GetByID(ctx, ev.ActorID); err != nil {
				return err
			}
		}
		return repository.NewNotificationRepository(tx).Create(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (d *Dispatcher) publish(ctx context.Context, n *models.Notification) {
	if d.publisher == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		d.logger.WarnContext(ctx, "failed to encode notification", slog.String("error", err.Error()))
		return
	}
	if err := d.publisher.PublishUser(ctx, n.RecipientID, string(payload)); err != nil {
		d.logger.WarnContext(ctx, "failed to publish notification",
			slog.Uint64("recipient_id", uint64(n.RecipientID)),
			slog.String("error", err.Error()),
		)
	}
}
