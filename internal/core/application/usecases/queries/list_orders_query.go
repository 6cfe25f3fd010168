package queries

import (
	"errors"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// ListOrdersQuery retrieves one page of orders, optionally filtered by status.
// Out-of-range paging parameters are clamped rather than rejected: page floors
// at 1, and a limit outside [1, 100] falls back to 50.
//
// Example:
//
//	pending := order.Pending
//	query, err := NewListOrdersQuery(&pending, 1, 20)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := handler.Handle(ctx, query)
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	status *order.Status
	page   int
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery creates a query to list orders. A nil status matches
// every order. Page and limit are clamped into their valid ranges.
func NewListOrdersQuery(status *order.Status, page, limit int) (ListOrdersQuery, error) {
	listQuery := ListOrdersQuery{
		page:  page,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}

	if err := listQuery.setStatus(status); err != nil {
		return ListOrdersQuery{}, err
	}

	if listQuery.page < 1 {
		listQuery.page = 1
	}
	if listQuery.limit < 1 || listQuery.limit > maxPageLimit {
		listQuery.limit = defaultPageLimit
	}

	return listQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrListOrdersQueryIsNotConstructed if validation fails.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Status returns the status filter, nil when no filter applies.
func (q ListOrdersQuery) Status() *order.Status {
	if q.status == nil {
		return nil
	}
	status := *q.status
	return &status
}

// Page returns the clamped 1-based page number.
func (q ListOrdersQuery) Page() int {
	return q.page
}

// Limit returns the clamped page size.
func (q ListOrdersQuery) Limit() int {
	return q.limit
}

func (q *ListOrdersQuery) setStatus(status *order.Status) error {
	if status == nil {
		return nil
	}

	if err := status.Validate(); err != nil {
		return err
	}

	value := *status
	q.status = &value
	return nil
}

// ListOrdersResponse is one page of orders with paging metadata.
type ListOrdersResponse struct {
	Orders  []OrderResponse
	Total   int64
	Page    int
	Limit   int
	HasNext bool
	HasPrev bool
}
