package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler retrieves pages of orders from the database.
// Results are stable-ordered by creation time ascending with ID as tiebreak,
// so consecutive pages neither lose nor duplicate orders.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

// NewListOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle executes the listing query and returns one page of orders together
// with the total match count and paging metadata. Listing an empty page past
// the end of the result set is not an error.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersResponse{}, err
	}

	where := ""
	args := []any{}
	if status := query.Status(); status != nil {
		where = "WHERE status = ?"
		args = append(args, int(*status))
	}

	var total int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM orders "+where, args...).
		Scan(&total).Error
	if err != nil {
		return ListOrdersResponse{}, err
	}

	offset := (query.Page() - 1) * query.Limit()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			total_amount,
			created_at,
			updated_at
		FROM orders
		`+where+`
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`, append(args, query.Limit(), offset)...).Rows()
	if err != nil {
		return ListOrdersResponse{}, err
	}
	defer rows.Close()

	orders := make([]OrderResponse, 0, query.Limit())
	for rows.Next() {
		resp, scanErr := scanOrderRow(rows.Scan)
		if scanErr != nil {
			return ListOrdersResponse{}, scanErr
		}
		orders = append(orders, resp)
	}
	if err = rows.Err(); err != nil {
		return ListOrdersResponse{}, err
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, resp := range orders {
		orderIDs = append(orderIDs, resp.ID.Bytes())
	}

	items, err := fetchItems(ctx, h.db, orderIDs)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID.Bytes()]
	}

	return ListOrdersResponse{
		Orders:  orders,
		Total:   total,
		Page:    query.Page(),
		Limit:   query.Limit(),
		HasNext: int64(query.Page())*int64(query.Limit()) < total,
		HasPrev: query.Page() > 1,
	}, nil
}
