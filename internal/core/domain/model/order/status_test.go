package order_test

import (
	"fmt"
	"testing"

	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.Pending,
		order.Processing,
		order.Shipped,
		order.Delivered,
		order.Cancelled,
	}
}

// allowedEdges is the complete lifecycle graph. Every (from, to) pair not
// listed here must be rejected, including self-loops and backward edges.
func allowedEdges() map[order.Status][]order.Status {
	return map[order.Status][]order.Status{
		order.Pending:    {order.Processing, order.Cancelled},
		order.Processing: {order.Shipped},
		order.Shipped:    {order.Delivered},
	}
}

func edgeAllowed(from, to order.Status) bool {
	for _, allowed := range allowedEdges()[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.Unknown))
		assert.Equal(t, 1, int(order.Pending))
		assert.Equal(t, 2, int(order.Processing))
		assert.Equal(t, 3, int(order.Shipped))
		assert.Equal(t, 4, int(order.Delivered))
		assert.Equal(t, 5, int(order.Cancelled))
	})

	t.Run("should have wire names", func(t *testing.T) {
		assert.Equal(t, "PENDING", order.Pending.String())
		assert.Equal(t, "PROCESSING", order.Processing.String())
		assert.Equal(t, "SHIPPED", order.Shipped.String())
		assert.Equal(t, "DELIVERED", order.Delivered.String())
		assert.Equal(t, "CANCELLED", order.Cancelled.String())
		assert.Equal(t, "UNKNOWN", order.Unknown.String())
		assert.Equal(t, "UNKNOWN", order.Status(42).String())
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		for _, status := range allStatuses() {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject Unknown status", func(t *testing.T) {
		err := order.Unknown.Validate()

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
	})

	t.Run("should reject out-of-range status values", func(t *testing.T) {
		for _, status := range []order.Status{order.Status(-1), order.Status(6), order.Status(100)} {
			require.Error(t, status.Validate(), "status value %d", int(status))
		}
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should parse every valid wire name", func(t *testing.T) {
		for _, status := range allStatuses() {
			parsed, err := order.StatusFromString(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, name := range []string{"", "UNKNOWN", "pending", "REFUNDED"} {
			_, err := order.StatusFromString(name)
			require.Error(t, err, "name %q", name)
			assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
		}
	})
}

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("every pair outside the graph is rejected", func(t *testing.T) {
		for _, from := range allStatuses() {
			for _, to := range allStatuses() {
				name := fmt.Sprintf("%s to %s", from, to)
				t.Run(name, func(t *testing.T) {
					got, err := from.TransitionTo(to)

					if edgeAllowed(from, to) {
						require.NoError(t, err)
						assert.Equal(t, to, got)
						assert.True(t, from.CanTransitionTo(to))
					} else {
						require.Error(t, err)
						assert.ErrorIs(t, err, errs.ErrInvalidTransition)
						assert.False(t, from.CanTransitionTo(to))
					}
				})
			}
		}
	})

	t.Run("transition to an invalid status is rejected", func(t *testing.T) {
		_, err := order.Pending.TransitionTo(order.Unknown)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, order.Pending.IsTerminal())
	assert.False(t, order.Processing.IsTerminal())
	assert.False(t, order.Shipped.IsTerminal())
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.Unknown.IsTerminal())
}

func TestStatus_IsCancellable(t *testing.T) {
	t.Run("only Pending is cancellable", func(t *testing.T) {
		assert.True(t, order.Pending.IsCancellable())

		for _, status := range []order.Status{order.Processing, order.Shipped, order.Delivered, order.Cancelled} {
			assert.False(t, status.IsCancellable(), "status %s", status)
		}
	})
}
