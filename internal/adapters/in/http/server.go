package http

import (
	"errors"
	"net/http"

	"ordertracker/internal/core/application/usecases/commands"
	"ordertracker/internal/core/application/usecases/queries"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// Server exposes the order lifecycle over HTTP.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler     commands.CreateOrderCommandHandler
	transitionOrderHandler commands.TransitionOrderCommandHandler
	cancelOrderHandler     commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	listOrdersHandler      queries.ListOrdersQueryHandler
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	getOrderHistoryHandler queries.GetOrderHistoryQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:     createOrderHandler,
		transitionOrderHandler: transitionOrderHandler,
		cancelOrderHandler:     cancelOrderHandler,
		getOrderHandler:        getOrderHandler,
		listOrdersHandler:      listOrdersHandler,
		getOrderHistoryHandler: getOrderHistoryHandler,
	}
}

// RegisterRoutes wires all routes onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.Validator = NewRequestValidator()

	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders", s.ListOrders)
	v1.GET("/orders/:id", s.GetOrder)
	v1.POST("/orders/:id/cancel", s.CancelOrder)
	v1.PATCH("/orders/:id/status", s.TransitionOrder)
	v1.GET("/orders/:id/history", s.GetOrderHistory)
}

// Health handles GET /health - liveness probe.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateOrder handles POST /api/v1/orders - creates a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	items := make([]commands.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return badRequest(ctx, "Invalid unit price: "+item.UnitPrice)
		}
		items = append(items, commands.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(req.CustomerID, items)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, orderResponseFromDomain(created))
}

// GetOrder handles GET /api/v1/orders/:id - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromQuery(resp))
}

// ListOrders handles GET /api/v1/orders - lists orders with optional status
// filter and clamped pagination.
func (s *Server) ListOrders(ctx echo.Context) error {
	var req ListOrdersRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	var statusFilter *order.Status
	if req.Status != "" {
		status, err := order.StatusFromString(req.Status)
		if err != nil {
			return badRequest(ctx, "Invalid status filter: "+req.Status)
		}
		statusFilter = &status
	}

	query, err := queries.NewListOrdersQuery(statusFilter, req.Page, req.Limit)
	if err != nil {
		return badRequest(ctx, "Invalid query parameters: "+err.Error())
	}

	resp, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	orders := make([]OrderResponse, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		orders = append(orders, orderResponseFromQuery(o))
	}

	return ctx.JSON(http.StatusOK, ListOrdersResponse{
		Orders:  orders,
		Total:   resp.Total,
		Page:    resp.Page,
		Limit:   resp.Limit,
		HasNext: resp.HasNext,
		HasPrev: resp.HasPrev,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel - cancels a pending order.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	cancelled, err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromDomain(cancelled))
}

// TransitionOrder handles PATCH /api/v1/orders/:id/status - moves an order to
// a requested status along the lifecycle graph.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	var req TransitionOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = ctx.Validate(&req); err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return badRequest(ctx, "Invalid status: "+req.Status)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, order.ActorClient)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	updated, err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFromDomain(updated))
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - returns the status
// audit trail of an order, oldest entry first.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := parseOrderID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order ID")
	}

	entries, err := s.getOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, historyResponseFromQuery(entry))
	}

	return ctx.JSON(http.StatusOK, response)
}

// parseOrderID extracts and validates the :id path parameter.
func parseOrderID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// badRequest writes a 400 response with the given message.
func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application errors onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrDuplicateKey):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrStoreUnavailable):
		code = http.StatusServiceUnavailable
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

// orderResponseFromDomain maps an order aggregate onto the API representation.
func orderResponseFromDomain(o *order.Order) OrderResponse {
	domainItems := o.Items()
	items := make([]ItemResponse, 0, len(domainItems))
	for _, item := range domainItems {
		items = append(items, ItemResponse{
			ID:        item.ID().String(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		})
	}

	return OrderResponse{
		ID:         o.ID().String(),
		CustomerID: o.CustomerID(),
		Status:     o.Status().String(),
		Total:      o.Total().StringFixed(2),
		CreatedAt:  o.CreatedAt(),
		UpdatedAt:  o.UpdatedAt(),
		Items:      items,
	}
}
