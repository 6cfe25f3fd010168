package order

import (
	"fmt"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// minUnitPrice is the smallest accepted unit price. Prices are handled as
// exact decimals with two fractional digits.
var minUnitPrice = decimal.New(1, -2) // 0.01

// Item is a line of an order: a product, a quantity, and the unit price the
// product was sold at. Items are owned exclusively by their parent order and
// are immutable once the order is created — there is no item-level edit.
type Item struct {
	id        kernel.UUID
	productID string
	quantity  int
	unitPrice decimal.Decimal

	isConstructed bool
}

// NewItem creates a validated order item.
//
// Validation rules:
//   - id must be a constructed UUID
//   - productID must not be empty
//   - quantity must be at least 1
//   - unitPrice must be at least 0.01
func NewItem(id kernel.UUID, productID string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	if err := id.Validate(); err != nil {
		return Item{}, err
	}

	if productID == "" {
		return Item{}, errs.NewValueIsRequiredError("productID")
	}

	if quantity < 1 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"quantity is invalid",
			fmt.Errorf("%d is less than 1", quantity),
		)
	}

	if unitPrice.LessThan(minUnitPrice) {
		return Item{}, errs.NewValueIsInvalidErrorWithCause(
			"unitPrice is invalid",
			fmt.Errorf("%s is less than %s", unitPrice, minUnitPrice),
		)
	}

	return Item{
		id:            id,
		productID:     productID,
		quantity:      quantity,
		unitPrice:     unitPrice,
		isConstructed: true,
	}, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	if !i.isConstructed {
		return errs.NewValueIsRequiredError("Item must be created via NewItem")
	}
	return nil
}

// ID returns the item's unique identifier.
func (i Item) ID() kernel.UUID {
	return i.id
}

// ProductID returns the opaque product identifier.
func (i Item) ProductID() string {
	return i.productID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the unit price the product was sold at.
func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal returns quantity × unit price as an exact decimal.
func (i Item) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// ComputeTotal sums quantity × unit price over all items.
// It fails if the item sequence is empty or any item is malformed; an order
// total is never accepted as external input, only derived here.
func ComputeTotal(items []Item) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, errs.NewValueIsRequiredError("items")
	}

	total := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return decimal.Zero, err
		}
		total = total.Add(item.Subtotal())
	}

	return total, nil
}
