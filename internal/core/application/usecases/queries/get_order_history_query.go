package queries

import (
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery retrieves the append-only status history of an order,
// oldest entry first. The first entry always records the creation into
// Pending with no previous status.
type GetOrderHistoryQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a query to retrieve an order's status history.
func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	historyQuery := GetOrderHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := historyQuery.setOrderID(orderID); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return historyQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderHistoryQueryIsNotConstructed if validation fails.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// OrderID returns the identifier of the order whose history to fetch.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderHistoryQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// HistoryEntryResponse represents one status change in a query result.
// Previous is nil for the entry written at order creation.
type HistoryEntryResponse struct {
	ID        kernel.UUID
	OrderID   kernel.UUID
	Previous  *order.Status
	Next      order.Status
	ChangedAt time.Time
	Actor     string
}
