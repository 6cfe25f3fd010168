package commands

import (
	"errors"

	"ordertracker/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrCustomerIDIsRequired = errors.New("customer id is required")
	ErrItemsAreRequired     = errors.New("order must contain at least one item")
)

// ItemInput is one requested order line as received from the caller.
// Quantity and unit price are fully validated when the domain item is built;
// the command only guarantees the list itself is present.
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderCommand represents a request to create a new order for a customer.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand("customer-42", []ItemInput{
//	    {ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	created, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID string
	items      []ItemInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the customer identifier is not empty and at least one item
// is supplied.
func NewCreateOrderCommand(customerID string, items []ItemInput) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setCustomerID(customerID),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the opaque customer identifier.
func (c CreateOrderCommand) CustomerID() string {
	return c.customerID
}

// Items returns the requested order lines in insertion order.
func (c CreateOrderCommand) Items() []ItemInput {
	return append([]ItemInput(nil), c.items...)
}

func (c *CreateOrderCommand) setCustomerID(customerID string) error {
	if customerID == "" {
		return ErrCustomerIDIsRequired
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	c.items = append([]ItemInput(nil), items...)
	return nil
}
