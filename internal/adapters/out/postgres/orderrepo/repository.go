package orderrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
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

// Add saves a new order to the database together with its line items and
// initial tracking history.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, items, events := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	if err := db.Create(&dto).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		if err := db.Create(&items).Error; err != nil {
			return err
		}
	}
	if len(events) > 0 {
		if err := db.Create(&events).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Line items are immutable
// after checkout, so only the order row and the tracking history change.
// The (order_id, sequence) key lets the whole history be re-inserted with
// already stored entries skipped.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, _, events := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Select("*").Omit("id", "created_at").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	if len(events) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&events).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID, including its line items and tracking history.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.load(ctx, id)
}

// Claim atomically assigns a courier to a ready, unassigned order. The
// assignment is a single conditional update so two concurrent claims can
// never both succeed: the loser's condition no longer matches and affects
// zero rows.
func (r *GormOrderRepository) Claim(
	ctx context.Context,
	id kernel.UUID,
	courier kernel.UUID,
	at time.Time,
) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := courier.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND courier_id IS NULL AND status = ?", id.Bytes(), order.Ready.String()).
		Updates(map[string]any{
			"courier_id": courier.Bytes(),
			"status":     order.PickedUp.String(),
			"updated_at": at,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := db.Model(&OrderDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, errs.NewConflictError("order is no longer available for claim")
	}

	appendPickup := db.Exec(
		`INSERT INTO tracking_events (order_id, sequence, status, at, note)
		 SELECT ?, COALESCE(MAX(sequence), 0) + 1, ?, ?, ?
		 FROM tracking_events WHERE order_id = ?`,
		id.Bytes(), order.PickedUp.String(), at, "claimed by courier", id.Bytes(),
	)
	if appendPickup.Error != nil {
		return nil, appendPickup.Error
	}

	aggregate, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return aggregate, nil
}

func (r *GormOrderRepository) load(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	db := r.db.WithContext(ctx)

	var dto OrderDTO
	result := db.Where("id = ?", id.Bytes()).Limit(1).Find(&dto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}

	var items []OrderItemDTO
	if err := db.Where("order_id = ?", dto.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	var events []TrackingEventDTO
	if err := db.Where("order_id = ?", dto.ID).Order("sequence ASC").Find(&events).Error; err != nil {
		return nil, err
	}

	return toDomain(dto, items, events)
}
