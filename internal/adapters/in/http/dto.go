package http

import (
	"time"

	"ordertracker/internal/core/application/usecases/queries"
)

// CreateOrderRequest is the payload for POST /api/v1/orders.
// The order total is never part of the request; it is derived from the items.
type CreateOrderRequest struct {
	CustomerID string                   `json:"customer_id" validate:"required"`
	Items      []CreateOrderItemRequest `json:"items"       validate:"required,min=1,dive"`
}

// CreateOrderItemRequest is one requested order line.
// UnitPrice travels as a string to avoid binary floating point on amounts.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
	UnitPrice string `json:"unit_price" validate:"required"`
}

// TransitionOrderRequest is the payload for PATCH /api/v1/orders/:id/status.
type TransitionOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListOrdersRequest carries the query parameters of GET /api/v1/orders.
// Out-of-range page and limit values are clamped, not rejected.
type ListOrdersRequest struct {
	Status string `query:"status"`
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
}

// ItemResponse is one order line in an API response.
type ItemResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// OrderResponse is an order in an API response. Amounts are strings with two
// fractional digits.
type OrderResponse struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customer_id"`
	Status     string         `json:"status"`
	Total      string         `json:"total"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	Items      []ItemResponse `json:"items"`
}

// ListOrdersResponse is one page of orders with paging metadata.
type ListOrdersResponse struct {
	Orders  []OrderResponse `json:"orders"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	HasNext bool            `json:"has_next"`
	HasPrev bool            `json:"has_prev"`
}

// HistoryEntryResponse is one status change in an API response.
// PreviousStatus is null for the entry written at order creation.
type HistoryEntryResponse struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"order_id"`
	PreviousStatus *string   `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	ChangedAt      time.Time `json:"changed_at"`
	ChangedBy      string    `json:"changed_by"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// orderResponseFromQuery maps a query result onto the API representation.
func orderResponseFromQuery(resp queries.OrderResponse) OrderResponse {
	items := make([]ItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, ItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Subtotal:  item.Subtotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:         resp.ID.String(),
		CustomerID: resp.CustomerID,
		Status:     resp.Status.String(),
		Total:      resp.Total.StringFixed(2),
		CreatedAt:  resp.CreatedAt,
		UpdatedAt:  resp.UpdatedAt,
		Items:      items,
	}
}

// historyResponseFromQuery maps a history entry onto the API representation.
func historyResponseFromQuery(entry queries.HistoryEntryResponse) HistoryEntryResponse {
	var previous *string
	if entry.Previous != nil {
		name := entry.Previous.String()
		previous = &name
	}

	return HistoryEntryResponse{
		ID:             entry.ID.String(),
		OrderID:        entry.OrderID.String(),
		PreviousStatus: previous,
		NewStatus:      entry.Next.String(),
		ChangedAt:      entry.ChangedAt,
		ChangedBy:      entry.Actor,
	}
}
