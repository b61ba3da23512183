// Package events carries domain events from a committed unit of work to
// asynchronous subscribers.
package events

import (
	"kinship/internal/models"
)

// Outbox buffers the events staged by one unit of work. It is owned by that
// unit and is not safe for concurrent use.
type Outbox struct {
	staged []models.DomainEvent
}

// Stage appends ev to the buffer.
func (o *Outbox) Stage(ev models.DomainEvent) {
	o.staged = append(o.staged, ev)
}

// Len reports how many events are staged.
func (o *Outbox) Len() int {
	return len(o.staged)
}

// Drain returns the staged events and empties the buffer.
func (o *Outbox) Drain() []models.DomainEvent {
	out := o.staged
	o.staged = nil
	return out
}
