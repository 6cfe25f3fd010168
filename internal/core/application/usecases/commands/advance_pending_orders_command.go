package commands

import (
	"errors"

	"ordertracker/internal/pkg/guard"
)

var ErrAdvancePendingOrdersCommandIsNotConstructed = errors.New(
	"AdvancePendingOrdersCommand must be created via NewAdvancePendingOrdersCommand constructor",
)

// AdvancePendingOrdersCommand represents a request to run one sweep that
// advances every Pending order to Processing. It carries no parameters; the
// guard only proves the command came through the constructor.
type AdvancePendingOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewAdvancePendingOrdersCommand creates a command to advance pending orders.
func NewAdvancePendingOrdersCommand() (AdvancePendingOrdersCommand, error) {
	return AdvancePendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvancePendingOrdersCommandIsNotConstructed if validation fails.
func (c AdvancePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrAdvancePendingOrdersCommandIsNotConstructed)
}
