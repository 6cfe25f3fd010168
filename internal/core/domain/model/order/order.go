package order

import (
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Order represents a customer purchase tracked through a fixed lifecycle.
// It is the aggregate root that owns the order's items and status history
// and enforces the legality of status transitions.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty customer identifier
//   - Must contain at least one valid item; items are immutable after creation
//   - total is always sum(quantity × unit price) over the items, recomputed
//     on construction and never accepted as external input
//   - Status transitions follow the lifecycle graph defined on Status
//   - updatedAt never precedes createdAt
//   - Can only be created through NewOrder or RestoreOrder
//
// The Order struct uses private fields to ensure encapsulation and maintains
// its invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// customerID is the opaque identifier of the purchasing customer
	customerID string

	// items are the order lines, insertion order preserved
	items []Item

	// status represents the current state in the order lifecycle
	status Status

	// total is derived from the items, never settable
	total decimal.Decimal

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation. This is the
// only way to create a fresh order, ensuring all business invariants hold.
//
// Parameters:
//   - id: Unique identifier for the order (must be a constructed UUID)
//   - customerID: Opaque customer identifier (must not be empty)
//   - items: At least one validated item; the total is computed from them
//   - now: Creation instant; both createdAt and updatedAt start here
//
// Returns the created order, or a validation error if any parameter is invalid.
func NewOrder(id kernel.UUID, customerID string, items []Item, now time.Time) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customerID")
	}

	total, err := ComputeTotal(items)
	if err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerID:    customerID,
		items:         append([]Item(nil), items...),
		status:        Pending,
		total:         total,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence.
// The status is validated against the closed enumeration, and the total is
// recomputed from the items rather than trusted from storage, so a corrupted
// row cannot smuggle in an inconsistent amount.
func RestoreOrder(
	id kernel.UUID,
	customerID string,
	items []Item,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if updatedAt.Before(createdAt) {
		return nil, errs.NewValueIsInvalidError("updatedAt precedes createdAt")
	}

	restored, err := NewOrder(id, customerID, items, createdAt)
	if err != nil {
		return nil, err
	}

	restored.status = status
	restored.updatedAt = updatedAt
	return restored, nil
}

// Validate ensures the Order instance was properly constructed through a factory method.
// This prevents bypassing validation by directly instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the opaque customer identifier.
func (o *Order) CustomerID() string {
	return o.customerID
}

// Items returns the order lines in insertion order.
// The returned slice is a copy; items are immutable after creation.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Total returns the order total, always equal to the sum of the item subtotals.
func (o *Order) Total() decimal.Decimal {
	return o.total
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp, never before CreatedAt.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// TransitionTo moves the order to the target status if the lifecycle graph
// allows it, bumping updatedAt.
//
// Returns:
//   - nil on a successful transition
//   - *errs.InvalidTransitionError if the edge does not exist
func (o *Order) TransitionTo(target Status, now time.Time) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = newStatus
	if now.After(o.updatedAt) {
		o.updatedAt = now
	}
	return nil
}

// Cancel cancels the order. Cancellation is a plain lifecycle transition to
// Cancelled and therefore only legal while the order is still Pending.
func (o *Order) Cancel(now time.Time) error {
	if !o.status.IsCancellable() {
		return errs.NewInvalidTransitionError(o.status.String(), Cancelled.String())
	}

	return o.TransitionTo(Cancelled, now)
}
