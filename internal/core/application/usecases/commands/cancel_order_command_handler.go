package commands

import (
	"context"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"
)

// CancelOrderCommandHandler handles the business logic for order cancellation.
// Cancellation is a constrained transition: only Pending orders qualify, and
// unlike the generic transition path it is not idempotent. Cancelling an
// already cancelled order fails so the caller learns its request changed
// nothing.
type CancelOrderCommandHandler struct {
	uowFactory        OrderUoWFactory
	transitionHandler TransitionOrderCommandHandler
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
// Delegates the actual status change to the transition handler so every
// mutation shares one conflict-resolution path.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	transitionHandler TransitionOrderCommandHandler,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory:        uowFactory,
		transitionHandler: transitionHandler,
	}
}

// Handle processes the cancellation command. Returns
// *errs.InvalidTransitionError when the order is past the point of
// cancellation.
func (h *CancelOrderCommandHandler) Handle(
	ctx context.Context,
	cmd CancelOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	current, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	rollbackErr := uow.Rollback(ctx)
	if err != nil {
		return nil, err
	}
	if rollbackErr != nil {
		return nil, rollbackErr
	}

	if !current.Status().IsCancellable() {
		return nil, errs.NewInvalidTransitionError(
			current.Status().String(),
			order.Cancelled.String(),
		)
	}

	transitionCmd, err := NewTransitionOrderCommand(cmd.OrderID(), order.Cancelled, order.ActorClient)
	if err != nil {
		return nil, err
	}

	return h.transitionHandler.Handle(ctx, transitionCmd)
}
