// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The stored total is redundant (always derived from the items) but kept as a
// column so listings and reports can read it without joining items.
type OrderDTO struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID  string          `gorm:"type:varchar(255);not null;index"`
	Status      int             `gorm:"not null;index"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time       `gorm:"not null;index"`
	UpdatedAt   time.Time       `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line. Position preserves the insertion
// order of the items within their order.
type OrderItemDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Position  int             `gorm:"not null"`
}

// TableName specifies the database table name for order item entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// StatusHistoryDTO represents one append-only audit row per accepted status
// transition. OldStatus is NULL only for the entry written at order creation.
type StatusHistoryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OldStatus *int
	NewStatus int       `gorm:"not null"`
	ChangedAt time.Time `gorm:"not null"`
	ChangedBy string    `gorm:"type:varchar(255);not null"`
}

// TableName specifies the database table name for status history entities.
func (StatusHistoryDTO) TableName() string {
	return "order_status_history"
}

// fromDomain converts an order aggregate to its database representation,
// including its items.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := aggregate.Items()
	itemDTOs := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		itemDTOs = append(itemDTOs, OrderItemDTO{
			ID:        item.ID().Bytes(),
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Position:  i,
		})
	}

	return OrderDTO{
		ID:          aggregate.ID().Bytes(),
		CustomerID:  aggregate.CustomerID(),
		Status:      int(aggregate.Status()),
		TotalAmount: aggregate.Total(),
		CreatedAt:   aggregate.CreatedAt(),
		UpdatedAt:   aggregate.UpdatedAt(),
		Items:       itemDTOs,
	}
}

// historyFromDomain converts a history entry to its database representation.
func historyFromDomain(entry order.HistoryEntry) StatusHistoryDTO {
	var oldStatus *int
	if prev := entry.Previous(); prev != nil {
		raw := int(*prev)
		oldStatus = &raw
	}

	return StatusHistoryDTO{
		ID:        entry.ID().Bytes(),
		OrderID:   entry.OrderID().Bytes(),
		OldStatus: oldStatus,
		NewStatus: int(entry.Next()),
		ChangedAt: entry.ChangedAt(),
		ChangedBy: entry.Actor(),
	}
}

// toDomain converts a database DTO (items preloaded) to an order aggregate.
// Items are expected sorted by position; the aggregate recomputes the total.
func toDomain(dto OrderDTO) (*order.Order, error) {
	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		id, err := kernel.UUIDFromBytes(itemDTO.ID[:])
		if err != nil {
			return nil, err
		}

		item, err := order.NewItem(id, itemDTO.ProductID, itemDTO.Quantity, itemDTO.UnitPrice)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		dto.CustomerID,
		items,
		order.Status(dto.Status),
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

// historyToDomain converts a status history DTO to its domain representation.
func historyToDomain(dto StatusHistoryDTO) (order.HistoryEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}

	var previous *order.Status
	if dto.OldStatus != nil {
		prev := order.Status(*dto.OldStatus)
		previous = &prev
	}

	return order.NewHistoryEntry(
		id,
		orderID,
		previous,
		order.Status(dto.NewStatus),
		dto.ChangedAt,
		dto.ChangedBy,
	)
}
