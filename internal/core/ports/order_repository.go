package ports

import (
	"context"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
)

// ListFilter narrows a listing to orders in a given status.
// A nil Status matches every order.
type ListFilter struct {
	Status *order.Status
}

// Page is offset/limit pagination over a stable ordering.
// Pages are 1-based; Limit is the maximum number of orders per page.
type Page struct {
	Number int
	Limit  int
}

// Offset returns the number of records to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// OrderRepository defines the persistence contract for order aggregates.
// It is a key-addressable store with per-key optimistic concurrency: the only
// way to change an order's status is UpdateStatusIfCurrent, which serializes
// concurrent mutations per order.
type OrderRepository interface {
	// Add persists a new order together with its items and the creation
	// history entry. Fails with *errs.DuplicateKeyError if the ID already
	// exists; under correct ID generation this indicates a generation defect.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its items by unique identifier.
	// Fails with *errs.ObjectNotFoundError when the ID is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns one page of orders matching the filter, stable-ordered by
	// creation time ascending (ID ascending as tiebreak), together with the
	// total number of matches. Offset/limit pagination neither loses nor
	// duplicates records as long as no concurrent writes happen during a
	// single listing call.
	List(ctx context.Context, filter ListFilter, page Page) ([]*order.Order, int64, error)

	// UpdateStatusIfCurrent atomically moves the order from expected to target.
	// The update succeeds only if the stored status still equals expected at
	// the moment of the write; on success it bumps updated_at to changedAt,
	// appends exactly one history entry tagged with actor, and returns the
	// updated order. On a mismatch it fails with *errs.ConflictError and the
	// caller must re-read and decide whether to retry or treat the transition
	// as already handled. This is the single serialization point per order.
	UpdateStatusIfCurrent(
		ctx context.Context,
		id kernel.UUID,
		expected order.Status,
		target order.Status,
		actor string,
		changedAt time.Time,
	) (*order.Order, error)

	// History returns the append-only status history of an order, ordered by
	// change time ascending. Fails with *errs.ObjectNotFoundError when the
	// order does not exist.
	History(ctx context.Context, id kernel.UUID) ([]order.HistoryEntry, error)
}
