package commands_test

import (
	"testing"

	"ordertracker/internal/core/application/usecases/commands"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItemInputs() []commands.ItemInput {
	return []commands.ItemInput{
		{ProductID: "product-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{ProductID: "product-2", Quantity: 1, UnitPrice: decimal.RequireFromString("5.00")},
	}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand("customer-42", validItemInputs())
	require.NoError(t, err)
	assert.Equal(t, "customer-42", cmd.CustomerID())
	assert.Len(t, cmd.Items(), 2)
	assert.Equal(t, "product-1", cmd.Items()[0].ProductID)
}

func TestNewCreateOrderCommand_EmptyCustomerID(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("", validItemInputs())
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCustomerIDIsRequired)
}

func TestNewCreateOrderCommand_EmptyItems(t *testing.T) {
	_, err := commands.NewCreateOrderCommand("customer-42", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrItemsAreRequired)
}

func TestCreateOrderCommand_Validate_NotConstructed(t *testing.T) {
	cmd := commands.CreateOrderCommand{} // zero value, should trigger validation error
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommand_Items_ReturnsCopy(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand("customer-42", validItemInputs())
	require.NoError(t, err)

	items := cmd.Items()
	items[0].ProductID = "mutated"
	assert.Equal(t, "product-1", cmd.Items()[0].ProductID)
}
