package order

import (
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
)

// Actor tags recorded on status history entries, identifying which mutation
// path accepted a transition.
const (
	// ActorClient marks transitions triggered by a synchronous client request.
	ActorClient = "client"

	// ActorScheduler marks transitions applied by the background advancer.
	ActorScheduler = "scheduler"
)

// HistoryEntry is an immutable audit record of one accepted status change.
// Exactly one entry is appended per accepted transition; entries are never
// mutated or deleted. The entry written at order creation has no previous
// status.
type HistoryEntry struct {
	id        kernel.UUID
	orderID   kernel.UUID
	previous  *Status // nil for the creation entry
	next      Status
	changedAt time.Time
	actor     string

	isConstructed bool
}

// NewHistoryEntry creates a validated status history entry.
// previous is nil only for the entry recorded when the order is created.
func NewHistoryEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	previous *Status,
	next Status,
	changedAt time.Time,
	actor string,
) (HistoryEntry, error) {
	if err := id.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	if err := orderID.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	if previous != nil {
		if err := previous.Validate(); err != nil {
			return HistoryEntry{}, err
		}
	}

	if err := next.Validate(); err != nil {
		return HistoryEntry{}, err
	}

	if actor == "" {
		return HistoryEntry{}, errs.NewValueIsRequiredError("actor")
	}

	return HistoryEntry{
		id:            id,
		orderID:       orderID,
		previous:      previous,
		next:          next,
		changedAt:     changedAt,
		actor:         actor,
		isConstructed: true,
	}, nil
}

// Validate ensures the entry was created through NewHistoryEntry.
func (h HistoryEntry) Validate() error {
	if !h.isConstructed {
		return errs.NewValueIsRequiredError("HistoryEntry must be created via NewHistoryEntry")
	}
	return nil
}

// ID returns the entry's unique identifier.
func (h HistoryEntry) ID() kernel.UUID {
	return h.id
}

// OrderID returns the identifier of the order the entry belongs to.
func (h HistoryEntry) OrderID() kernel.UUID {
	return h.orderID
}

// Previous returns the status before the transition, or nil for the creation entry.
func (h HistoryEntry) Previous() *Status {
	if h.previous == nil {
		return nil
	}
	prev := *h.previous
	return &prev
}

// Next returns the status after the transition.
func (h HistoryEntry) Next() Status {
	return h.next
}

// ChangedAt returns the instant the transition was accepted.
func (h HistoryEntry) ChangedAt() time.Time {
	return h.changedAt
}

// Actor returns the actor tag, either ActorClient or ActorScheduler.
func (h HistoryEntry) Actor() string {
	return h.actor
}
