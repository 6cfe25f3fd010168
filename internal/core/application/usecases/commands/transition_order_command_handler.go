package commands

import (
	"context"
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"
)

// TransitionOrderCommandHandler handles the business logic for moving an
// order along its lifecycle. Every status mutation in the system, whether
// requested by a client or by the background advancer, passes through this
// handler.
//
// The handler is idempotent: transitioning an order that already sits at the
// target status succeeds without writing anything. When a concurrent update
// wins the race, the handler re-reads the order, short-circuits if the racer
// reached the same target, re-validates the edge against the fresh status and
// retries once before surfacing the conflict.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewTransitionOrderCommandHandler creates a handler for status transitions.
// Requires an OrderUoWFactory for transactional persistence.
func NewTransitionOrderCommandHandler(uowFactory OrderUoWFactory) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command and returns the order as it stands
// after the attempt. Returns *errs.InvalidTransitionError when the lifecycle
// graph has no edge from the current status to the target, and
// *errs.ConflictError when a concurrent update keeps winning.
func (h *TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	updated, err := h.attempt(ctx, cmd)
	if err == nil || !errors.Is(err, errs.ErrConflict) {
		return updated, err
	}

	// Lost the race. Another writer changed the status between our read and
	// the conditional update, so decide against the fresh state.
	fresh, readErr := h.read(ctx, cmd.OrderID())
	if readErr != nil {
		return nil, readErr
	}

	if fresh.Status() == cmd.Target() {
		return fresh, nil
	}

	if !fresh.Status().CanTransitionTo(cmd.Target()) {
		return nil, errs.NewInvalidTransitionError(fresh.Status().String(), cmd.Target().String())
	}

	return h.attempt(ctx, cmd)
}

// attempt performs one read-validate-update cycle inside a transaction.
func (h *TransitionOrderCommandHandler) attempt(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if current.Status() == cmd.Target() {
		return current, nil
	}

	if !current.Status().CanTransitionTo(cmd.Target()) {
		return nil, errs.NewInvalidTransitionError(current.Status().String(), cmd.Target().String())
	}

	updated, err := repo.UpdateStatusIfCurrent(
		ctx,
		cmd.OrderID(),
		current.Status(),
		cmd.Target(),
		cmd.Actor(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

// read fetches the order outside any mutation path.
func (h *TransitionOrderCommandHandler) read(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().Get(ctx, id)
}
