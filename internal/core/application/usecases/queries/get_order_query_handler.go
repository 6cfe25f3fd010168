package queries

import (
	"context"
	"database/sql"
	"errors"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves a single order with its items from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get order: %v", err)
//	    return err
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query. Returns *errs.ObjectNotFoundError when the order
// does not exist. Items come back in their insertion order.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	resp, err := fetchOrder(ctx, h.db, query.OrderID())
	if err != nil {
		return OrderResponse{}, err
	}

	items, err := fetchItems(ctx, h.db, []uuid.UUID{query.OrderID().Bytes()})
	if err != nil {
		return OrderResponse{}, err
	}
	resp.Items = items[query.OrderID().Bytes()]

	return resp, nil
}

// fetchOrder reads one order row without its items.
func fetchOrder(ctx context.Context, db *gorm.DB, orderID kernel.UUID) (OrderResponse, error) {
	row := db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			total_amount,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Row()

	resp, err := scanOrderRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OrderResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
		}
		return OrderResponse{}, err
	}

	return resp, nil
}

// scanOrderRow maps one orders row onto an OrderResponse.
func scanOrderRow(scan func(dest ...any) error) (OrderResponse, error) {
	var resp OrderResponse
	var id uuid.UUID
	var status int

	err := scan(
		&id,
		&resp.CustomerID,
		&status,
		&resp.Total,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		return OrderResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderResponse{}, err
	}
	resp.ID = orderID

	resp.Status = order.Status(status)
	if err = resp.Status.Validate(); err != nil {
		return OrderResponse{}, err
	}

	return resp, nil
}

// fetchItems loads the order lines for a set of orders, keyed by order ID and
// sorted by insertion position.
func fetchItems(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]ItemResponse, error) {
	items := make(map[uuid.UUID][]ItemResponse, len(orderIDs))
	if len(orderIDs) == 0 {
		return items, nil
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			product_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, position
	`, orderIDs).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var itemResp ItemResponse
		var id, orderID uuid.UUID

		err = rows.Scan(
			&id,
			&orderID,
			&itemResp.ProductID,
			&itemResp.Quantity,
			&itemResp.UnitPrice,
		)
		if err != nil {
			return nil, err
		}

		itemID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		itemResp.ID = itemID
		itemResp.Subtotal = itemResp.UnitPrice.Mul(decimal.NewFromInt(int64(itemResp.Quantity)))

		items[orderID] = append(items[orderID], itemResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
