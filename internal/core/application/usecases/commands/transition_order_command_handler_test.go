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

// readOnlyUoW prepares a unit of work that serves a single Get and rolls back.
func readOnlyUoW(ctx any, repo *MockOrderRepository) *MockOrderUoW {
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	return uow
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorClient)

	pending := restoredOrder(t, id, order.Pending)
	processing := restoredOrder(t, id, order.Processing)

	repo := new(MockOrderRepository)
	uow := new(MockOrderUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		repo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Processing, order.ActorClient, mock.AnythingOfType("time.Time"),
		).Return(processing, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Processing, updated.Status())
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.TransitionOrderCommand{} // not constructed properly
	factory := new(MockOrderUoWFactory)
	h := commands.NewTransitionOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestTransitionOrderCommandHandler_Handle_AlreadyAtTarget(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorScheduler)

	processing := restoredOrder(t, id, order.Processing)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, id).Return(processing, nil).Once()
	uow := readOnlyUoW(ctx, repo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Processing, updated.Status())
	repo.AssertNotCalled(t, "UpdateStatusIfCurrent",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorScheduler)

	cancelled := restoredOrder(t, id, order.Cancelled)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, id).Return(cancelled, nil).Once()
	uow := readOnlyUoW(ctx, repo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestTransitionOrderCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorClient)

	repo := new(MockOrderRepository)
	repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id.String())).Once()
	uow := readOnlyUoW(ctx, repo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTransitionOrderCommandHandler_Handle_ConflictRacerReachedTarget(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorScheduler)

	pending := restoredOrder(t, id, order.Pending)
	processing := restoredOrder(t, id, order.Processing)
	conflict := errs.NewConflictError("order", id.String())

	attemptRepo := new(MockOrderRepository)
	attemptUoW := new(MockOrderUoW)
	mock.InOrder(
		attemptUoW.On("Begin", ctx).Return(nil).Once(),
		attemptUoW.On("OrderRepository").Return(attemptRepo).Once(),
		attemptRepo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		attemptRepo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Processing, order.ActorScheduler, mock.AnythingOfType("time.Time"),
		).Return(nil, conflict).Once(),
		attemptUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	// The racer advanced the order to the same target, so the re-read
	// short-circuits into an idempotent success.
	rereadRepo := new(MockOrderRepository)
	rereadRepo.On("Get", mock.Anything, id).Return(processing, nil).Once()
	rereadUoW := readOnlyUoW(ctx, rereadRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(attemptUoW).Once()
	factory.On("Create").Return(rereadUoW).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Processing, updated.Status())
	attemptRepo.AssertExpectations(t)
	rereadRepo.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConflictRacerClosedEdge(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorScheduler)

	pending := restoredOrder(t, id, order.Pending)
	cancelled := restoredOrder(t, id, order.Cancelled)
	conflict := errs.NewConflictError("order", id.String())

	attemptRepo := new(MockOrderRepository)
	attemptUoW := new(MockOrderUoW)
	mock.InOrder(
		attemptUoW.On("Begin", ctx).Return(nil).Once(),
		attemptUoW.On("OrderRepository").Return(attemptRepo).Once(),
		attemptRepo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		attemptRepo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Processing, order.ActorScheduler, mock.AnythingOfType("time.Time"),
		).Return(nil, conflict).Once(),
		attemptUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	// The racer cancelled the order, so no edge to the target remains.
	rereadRepo := new(MockOrderRepository)
	rereadRepo.On("Get", mock.Anything, id).Return(cancelled, nil).Once()
	rereadUoW := readOnlyUoW(ctx, rereadRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(attemptUoW).Once()
	factory.On("Create").Return(rereadUoW).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConflictRetrySucceeds(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorClient)

	pending := restoredOrder(t, id, order.Pending)
	processing := restoredOrder(t, id, order.Processing)
	conflict := errs.NewConflictError("order", id.String())

	firstRepo := new(MockOrderRepository)
	firstUoW := new(MockOrderUoW)
	mock.InOrder(
		firstUoW.On("Begin", ctx).Return(nil).Once(),
		firstUoW.On("OrderRepository").Return(firstRepo).Once(),
		firstRepo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		firstRepo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Processing, order.ActorClient, mock.AnythingOfType("time.Time"),
		).Return(nil, conflict).Once(),
		firstUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	// The re-read still sees Pending with the edge open, so one retry runs.
	rereadRepo := new(MockOrderRepository)
	rereadRepo.On("Get", mock.Anything, id).Return(pending, nil).Once()
	rereadUoW := readOnlyUoW(ctx, rereadRepo)

	retryRepo := new(MockOrderRepository)
	retryUoW := new(MockOrderUoW)
	mock.InOrder(
		retryUoW.On("Begin", ctx).Return(nil).Once(),
		retryUoW.On("OrderRepository").Return(retryRepo).Once(),
		retryRepo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
		retryRepo.On("UpdateStatusIfCurrent",
			mock.Anything, id, order.Pending, order.Processing, order.ActorClient, mock.AnythingOfType("time.Time"),
		).Return(processing, nil).Once(),
		retryUoW.On("Commit", ctx).Return(nil).Once(),
		retryUoW.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(firstUoW).Once()
	factory.On("Create").Return(rereadUoW).Once()
	factory.On("Create").Return(retryUoW).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	updated, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, order.Processing, updated.Status())
	factory.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Handle_ConflictSurfacedAfterRetry(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewTransitionOrderCommand(id, order.Processing, order.ActorClient)

	pending := restoredOrder(t, id, order.Pending)
	conflict := errs.NewConflictError("order", id.String())

	attemptUoWs := make([]*MockOrderUoW, 0, 2)
	for range 2 {
		repo := new(MockOrderRepository)
		uow := new(MockOrderUoW)
		mock.InOrder(
			uow.On("Begin", ctx).Return(nil).Once(),
			uow.On("OrderRepository").Return(repo).Once(),
			repo.On("Get", mock.Anything, id).Return(pending, nil).Once(),
			repo.On("UpdateStatusIfCurrent",
				mock.Anything, id, order.Pending, order.Processing, order.ActorClient, mock.AnythingOfType("time.Time"),
			).Return(nil, conflict).Once(),
			uow.On("Rollback", ctx).Return(nil).Once(),
		)
		attemptUoWs = append(attemptUoWs, uow)
	}

	rereadRepo := new(MockOrderRepository)
	rereadRepo.On("Get", mock.Anything, id).Return(pending, nil).Once()
	rereadUoW := readOnlyUoW(ctx, rereadRepo)

	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(attemptUoWs[0]).Once()
	factory.On("Create").Return(rereadUoW).Once()
	factory.On("Create").Return(attemptUoWs[1]).Once()

	h := commands.NewTransitionOrderCommandHandler(factory)
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConflict)
	factory.AssertExpectations(t)
}
