package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
	"ordertracker/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// When constructed by the unit of work with an open transaction, all
// operations share that transaction, which makes the conditional status
// update and the history append a single atomic step.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// wrapStoreErr classifies substrate failures. Context expiry and cancelled
// calls mean the store did not answer within its bounded timeout.
func wrapStoreErr(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.NewStoreUnavailableError(op, err)
	}
	return err
}

// Add persists a new order together with its items and the creation history
// entry. An existing ID fails with *errs.DuplicateKeyError.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateKeyErrorWithCause("order", aggregate.ID().String(), err)
		}
		return wrapStoreErr("add order", err)
	}

	entry, err := order.NewHistoryEntry(
		kernel.NewUUID(),
		aggregate.ID(),
		nil,
		aggregate.Status(),
		aggregate.CreatedAt(),
		order.ActorClient,
	)
	if err != nil {
		return err
	}

	historyDTO := historyFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&historyDTO).Error; err != nil {
		return wrapStoreErr("add order history", err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order with its items by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, wrapStoreErr("get order", err)
	}

	return toDomain(dto)
}

// List returns one page of orders plus the total number of matches.
// Ordering is stable: creation time ascending with ID as tiebreak, so
// offset/limit paging neither loses nor duplicates records in the absence of
// concurrent writes.
func (r *GormOrderRepository) List(
	ctx context.Context,
	filter ports.ListFilter,
	page ports.Page,
) ([]*order.Order, int64, error) {
	if page.Number < 1 || page.Limit < 1 {
		return nil, 0, errs.NewValueIsInvalidError("pagination")
	}

	query := r.db.WithContext(ctx).Model(&OrderDTO{})
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return nil, 0, err
		}
		query = query.Where("status = ?", int(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, wrapStoreErr("count orders", err)
	}

	var dtos []OrderDTO
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&dtos).Error
	if err != nil {
		return nil, 0, wrapStoreErr("list orders", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}

	return orders, total, nil
}

// UpdateStatusIfCurrent applies the conditional status update that serializes
// concurrent mutations per order. The UPDATE only matches when the stored
// status still equals expected; zero affected rows is disambiguated by a
// re-read into not-found versus conflict. On success exactly one history
// entry is appended and the fresh order is returned.
func (r *GormOrderRepository) UpdateStatusIfCurrent(
	ctx context.Context,
	id kernel.UUID,
	expected order.Status,
	target order.Status,
	actor string,
	changedAt time.Time,
) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := expected.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), int(expected)).
		Updates(map[string]any{
			"status":     int(target),
			"updated_at": changedAt,
		})
	if result.Error != nil {
		return nil, wrapStoreErr("update order status", result.Error)
	}

	if result.RowsAffected == 0 {
		var current OrderDTO
		err := r.db.WithContext(ctx).Select("id", "status").First(&current, "id = ?", id.Bytes()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		if err != nil {
			return nil, wrapStoreErr("update order status", err)
		}

		return nil, errs.NewConflictErrorWithCause(
			"order",
			id.String(),
			fmt.Errorf("status is %s, expected %s", order.Status(current.Status), expected),
		)
	}

	entry, err := order.NewHistoryEntry(kernel.NewUUID(), id, &expected, target, changedAt, actor)
	if err != nil {
		return nil, err
	}

	historyDTO := historyFromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&historyDTO).Error; err != nil {
		return nil, wrapStoreErr("append order history", err)
	}

	updated, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(updated.ID(), updated)
	return updated, nil
}

// History returns the order's append-only status history, oldest first.
func (r *GormOrderRepository) History(ctx context.Context, id kernel.UUID) ([]order.HistoryEntry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var exists int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).Count(&exists).Error; err != nil {
		return nil, wrapStoreErr("get order history", err)
	}
	if exists == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	var dtos []StatusHistoryDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", id.Bytes()).
		Order("changed_at ASC, id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, wrapStoreErr("get order history", err)
	}

	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := historyToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
