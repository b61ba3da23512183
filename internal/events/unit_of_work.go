package events

import (
	"context"

	"kinship/internal/models"
	"kinship/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Releaser receives the events of a committed unit of work.
type Releaser interface {
	Release(ctx context.Context, evs []models.DomainEvent)
}

// UnitOfWork runs graph mutations in one transaction and releases the
// events they staged only after the commit succeeds.
type UnitOfWork struct {
	db  *gorm.DB
	bus Releaser
}

// NewUnitOfWork returns a UnitOfWork over db publishing to bus. A nil bus
// discards released events.
func NewUnitOfWork(db *gorm.DB, bus Releaser) *UnitOfWork {
	return &UnitOfWork{db: db, bus: bus}
}

// DB returns the handle used outside transactions.
func (u *UnitOfWork) DB() *gorm.DB {
	return u.db
}

// Do runs fn inside a transaction. fn must use tx for every statement. When
// fn returns an error or panics, the transaction is rolled back and the
// staged events are dropped. The error from fn is returned unwrapped.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB, out *Outbox) error) (err error) {
	span, ctx := observability.NewSpan(ctx, "unit_of_work")
	defer func() {
		span.SetError(err)
		span.End()
	}()

	out := &Outbox{}
	defer func() {
		if err != nil && out.Len() > 0 {
			observability.EventsDiscarded.Add(float64(out.Len()))
			out.Drain()
		}
	}()

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, out)
	})
	if err != nil {
		return err
	}

	evs := out.Drain()
	span.AddAttributes(attribute.Int("events.released", len(evs)))
	if len(evs) > 0 && u.bus != nil {
		u.bus.Release(ctx, evs)
	}
	return nil
}
