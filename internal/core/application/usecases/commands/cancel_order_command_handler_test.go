package commands_test

import (
	"testing"

	"ordertracker/internal/core/application/usecases/commands"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCancelOrderCommand(id)

	pending := restoredOrder(t, id, order.Pending)
	cancelled := restoredOrder(t, id, order.Cancelled)

	precheckRepo := new(MockOrderRepository)
	precheckRepo.On("Get", mock.Anything, id).Return(pending, nil).Once()
	precheckUoW := readOnlyUoW(ctx, precheckRepo)

	transitionRepo := new(MockOrderRepository)
	transitionUoW := new(MockOrderUoW)
	mock.InOrder(
		transitionUoW.On("Begin", ctx).Return(nil).Once(),
		transitionUoW.On("OrderRepository").Return(transitionRepo).Once(),
		transitionRepo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		transitionRepo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Cancelled, order.ActorClient, mock.AnythingOfType("time.Time"),
		).Return(cancelled, nil).Once(),
		transitionUoW.On("Commit", ctx).Return(nil).Once(),
		transitionUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(precheckUoW).Once()

	transitionFactory := new(MockOrderUoWFactory)
	transitionFactory.On("Create").Return(transitionUoW).Once()

	h := commands.NewCancelOrderCommandHandler(
		factory,
		commands.NewTransitionOrderCommandHandler(transitionFactory),
	)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, updated.Status())
	factory.AssertExpectations(t)
	transitionFactory.AssertExpectations(t)
	transitionRepo.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CancelOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewCancelOrderCommandHandler(factory, commands.NewTransitionOrderCommandHandler(factory))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestCancelOrderCommandHandler_Handle_NotCancellable(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCancelOrderCommand(id)

	shipped := restoredOrder(t, id, order.Shipped)

	precheckRepo := new(MockOrderRepository)
	precheckRepo.On("Get", mock.Anything, id).Return(shipped, nil).Once()
	precheckUoW := readOnlyUoW(ctx, precheckRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(precheckUoW).Once()

	transitionFactory := new(MockOrderUoWFactory)

	h := commands.NewCancelOrderCommandHandler(
		factory,
		commands.NewTransitionOrderCommandHandler(transitionFactory),
	)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	transitionFactory.AssertNotCalled(t, "Create")
}

func TestCancelOrderCommandHandler_Handle_AlreadyCancelled(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCancelOrderCommand(id)

	cancelled := restoredOrder(t, id, order.Cancelled)

	precheckRepo := new(MockOrderRepository)
	precheckRepo.On("Get", mock.Anything, id).Return(cancelled, nil).Once()
	precheckUoW := readOnlyUoW(ctx, precheckRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(precheckUoW).Once()

	transitionFactory := new(MockOrderUoWFactory)

	h := commands.NewCancelOrderCommandHandler(
		factory,
		commands.NewTransitionOrderCommandHandler(transitionFactory),
	)

	// Cancelling twice is not an idempotent no-op: the second request fails.
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	transitionFactory.AssertNotCalled(t, "Create")
}

func TestCancelOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewCancelOrderCommand(id)

	precheckRepo := new(MockOrderRepository)
	precheckRepo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()
	precheckUoW := readOnlyUoW(ctx, precheckRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(precheckUoW).Once()

	h := commands.NewCancelOrderCommandHandler(
		factory,
		commands.NewTransitionOrderCommandHandler(new(MockOrderUoWFactory)),
	)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}
