// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Indexed for the two hot read paths: a participant's own orders and the
// couriers' available list (status + unassigned courier).
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             string     `gorm:"uniqueIndex"`
	CustomerID         uuid.UUID  `gorm:"type:uuid;index"`
	MerchantID         uuid.UUID  `gorm:"type:uuid;index"`
	CourierID          *uuid.UUID `gorm:"type:uuid;index"`
	Status             string     `gorm:"index"`
	PaymentMethod      string
	PaymentStatus      string
	Subtotal           float64
	DeliveryFee        float64
	Tax                float64
	Discount           float64
	Total              float64
	Street             string
	City               string
	PostalCode         string
	Lat                *float64
	Lng                *float64
	Instructions       string
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeliveredAt        *time.Time
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one persisted line item of an order.
// Name and unit price are snapshots taken at checkout; later catalog edits
// do not touch them.
type OrderItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

// TableName specifies the database table name for order line items.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// TrackingEventDTO represents one entry of an order's append-only tracking
// history. The composite key (order id, sequence) makes re-inserting an
// already stored entry a no-op and an out-of-order insert impossible.
type TrackingEventDTO struct {
	OrderID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Sequence int       `gorm:"primaryKey;autoIncrement:false"`
	Status   string
	At       time.Time
	Lat      *float64
	Lng      *float64
	Note     string
}

// TableName specifies the database table name for tracking history entries.
func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, []OrderItemDTO, []TrackingEventDTO) {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	address := aggregate.Address()
	var lat, lng *float64
	if point := address.Point(); point != nil {
		latValue, lngValue := point.Lat(), point.Lng()
		lat, lng = &latValue, &lngValue
	}

	charges := aggregate.Charges()
	dto := OrderDTO{
		ID:                 aggregate.ID().Bytes(),
		Number:             aggregate.Number(),
		CustomerID:         aggregate.Customer().Bytes(),
		MerchantID:         aggregate.Merchant().Bytes(),
		CourierID:          courierID,
		Status:             aggregate.Status().String(),
		PaymentMethod:      aggregate.PaymentMethod().String(),
		PaymentStatus:      aggregate.PaymentStatus().String(),
		Subtotal:           charges.Subtotal,
		DeliveryFee:        charges.DeliveryFee,
		Tax:                charges.Tax,
		Discount:           charges.Discount,
		Total:              charges.Total,
		Street:             address.Street(),
		City:               address.City(),
		PostalCode:         address.PostalCode(),
		Lat:                lat,
		Lng:                lng,
		Instructions:       aggregate.Instructions(),
		CancellationReason: aggregate.CancellationReason(),
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		DeliveredAt:        aggregate.DeliveredAt(),
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   dto.ID,
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}

	events := make([]TrackingEventDTO, 0, len(aggregate.History()))
	for _, event := range aggregate.History() {
		var eventLat, eventLng *float64
		if point := event.Location(); point != nil {
			latValue, lngValue := point.Lat(), point.Lng()
			eventLat, eventLng = &latValue, &lngValue
		}
		events = append(events, TrackingEventDTO{
			OrderID:  dto.ID,
			Sequence: event.Sequence(),
			Status:   event.Status().String(),
			At:       event.At(),
			Lat:      eventLat,
			Lng:      eventLng,
			Note:     event.Note(),
		})
	}

	return dto, items, events
}

// toDomain converts database DTOs back to an order domain aggregate using
// RestoreOrder, which revalidates cross-field consistency.
func toDomain(dto OrderDTO, itemDTOs []OrderItemDTO, eventDTOs []TrackingEventDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	merchant, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	var courier *kernel.UUID
	if dto.CourierID != nil {
		courierID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courier = &courierID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentMethod, err := order.PaymentMethodFromString(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	address, err := restoreAddress(dto)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(itemDTOs))
	for _, itemDTO := range itemDTOs {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewLineItem(productID, itemDTO.Name, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	history := make([]order.TrackingEvent, 0, len(eventDTOs))
	for _, eventDTO := range eventDTOs {
		eventStatus, eventErr := order.StatusFromString(eventDTO.Status)
		if eventErr != nil {
			return nil, eventErr
		}
		var location *kernel.GeoPoint
		if eventDTO.Lat != nil && eventDTO.Lng != nil {
			point, pointErr := kernel.NewGeoPoint(*eventDTO.Lat, *eventDTO.Lng)
			if pointErr != nil {
				return nil, pointErr
			}
			location = &point
		}
		event, eventErr := order.NewTrackingEvent(eventDTO.Sequence, eventStatus, eventDTO.At, location, eventDTO.Note)
		if eventErr != nil {
			return nil, eventErr
		}
		history = append(history, event)
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		customer,
		merchant,
		courier,
		items,
		address,
		status,
		paymentMethod,
		paymentStatus,
		order.Charges{
			Subtotal:    dto.Subtotal,
			DeliveryFee: dto.DeliveryFee,
			Tax:         dto.Tax,
			Discount:    dto.Discount,
			Total:       dto.Total,
		},
		dto.Instructions,
		dto.CancellationReason,
		history,
		dto.CreatedAt,
		dto.UpdatedAt,
		dto.DeliveredAt,
	)
}

func restoreAddress(dto OrderDTO) (order.Address, error) {
	var point *kernel.GeoPoint
	if dto.Lat != nil && dto.Lng != nil {
		p, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
		if err != nil {
			return order.Address{}, err
		}
		point = &p
	}

	return order.NewAddress(dto.Street, dto.City, dto.PostalCode, point)
}
