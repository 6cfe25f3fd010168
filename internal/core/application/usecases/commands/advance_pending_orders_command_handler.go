package commands

import (
	"context"
	"errors"
	"log/slog"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"
)

// sweepPageLimit is the page size used when collecting pending orders.
const sweepPageLimit = 100

// SweepStats summarizes one advancer sweep.
type SweepStats struct {
	// Attempted is the number of pending orders the sweep tried to advance.
	Attempted int

	// Advanced counts orders that reached Processing, including orders a
	// concurrent writer advanced first.
	Advanced int

	// Skipped counts orders that left the Pending set between the snapshot
	// and the attempt, typically cancelled or deleted concurrently.
	Skipped int

	// Failed counts orders whose transition failed. Failures are logged and
	// never abort the sweep.
	Failed int
}

// AdvancePendingOrdersCommandHandler runs the periodic sweep that moves
// Pending orders to Processing on behalf of the scheduler.
//
// The sweep snapshots the IDs of every pending order before mutating any of
// them. Advancing an order removes it from the Pending filter, so paging and
// mutating in the same loop would shift later pages and skip orders. Each
// order is then advanced through the shared transition handler, which keeps
// the conflict rules identical to the client path.
type AdvancePendingOrdersCommandHandler struct {
	uowFactory        OrderUoWFactory
	transitionHandler TransitionOrderCommandHandler
	logger            *slog.Logger
}

// NewAdvancePendingOrdersCommandHandler creates a handler for the advancer sweep.
func NewAdvancePendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	transitionHandler TransitionOrderCommandHandler,
	logger *slog.Logger,
) AdvancePendingOrdersCommandHandler {
	return AdvancePendingOrdersCommandHandler{
		uowFactory:        uowFactory,
		transitionHandler: transitionHandler,
		logger:            logger,
	}
}

// Handle runs one sweep and returns its statistics. A per-order failure is
// counted and logged but never propagated; only failures to enumerate the
// pending set abort the sweep.
func (h *AdvancePendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd AdvancePendingOrdersCommand,
) (SweepStats, error) {
	if err := cmd.Validate(); err != nil {
		return SweepStats{}, err
	}

	ids, err := h.collectPendingIDs(ctx)
	if err != nil {
		return SweepStats{}, err
	}

	stats := SweepStats{Attempted: len(ids)}
	for _, id := range ids {
		err := h.advance(ctx, id)
		switch {
		case err == nil:
			stats.Advanced++
		case errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrInvalidTransition):
			// The order left the Pending set between the snapshot and the
			// attempt. Not a sweep defect.
			stats.Skipped++
			h.logger.Info("skipping order changed since sweep snapshot",
				"order_id", id.String(),
				"reason", err.Error())
		default:
			stats.Failed++
			h.logger.Error("failed to advance order",
				"order_id", id.String(),
				"error", err)
		}
	}

	return stats, nil
}

// collectPendingIDs pages through the store and snapshots every pending
// order ID before any of them is mutated.
func (h *AdvancePendingOrdersCommandHandler) collectPendingIDs(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	pending := order.Pending
	filter := ports.ListFilter{Status: &pending}

	var ids []kernel.UUID
	for pageNumber := 1; ; pageNumber++ {
		page := ports.Page{Number: pageNumber, Limit: sweepPageLimit}
		orders, _, err := repo.List(ctx, filter, page)
		if err != nil {
			return nil, err
		}

		for _, o := range orders {
			ids = append(ids, o.ID())
		}

		if len(orders) < sweepPageLimit {
			return ids, nil
		}
	}
}

// advance moves one order to Processing through the shared transition path.
// An order another writer advanced to Processing first counts as success via
// the handler's idempotent no-op.
func (h *AdvancePendingOrdersCommandHandler) advance(ctx context.Context, id kernel.UUID) error {
	cmd, err := NewTransitionOrderCommand(id, order.Processing, order.ActorScheduler)
	if err != nil {
		return err
	}

	_, err = h.transitionHandler.Handle(ctx, cmd)
	return err
}
