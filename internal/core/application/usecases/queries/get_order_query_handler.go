package queries

import (
	"context"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// orderRow mirrors one record of the orders table for read-side scans.
type orderRow struct {
	ID                 uuid.UUID
	Number             string
	CustomerID         uuid.UUID
	MerchantID         uuid.UUID
	CourierID          *uuid.UUID
	Status             string
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

type orderItemRow struct {
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

type trackingEventRow struct {
	OrderID  uuid.UUID
	Sequence int
	Status   string
	At       time.Time
	Lat      *float64
	Lng      *float64
	Note     string
}

func (r orderRow) toView(items []orderItemRow, events []trackingEventRow) OrderView {
	view := OrderView{
		ID:                 r.ID.String(),
		Number:             r.Number,
		CustomerID:         r.CustomerID.String(),
		MerchantID:         r.MerchantID.String(),
		Status:             r.Status,
		PaymentMethod:      r.PaymentMethod,
		PaymentStatus:      r.PaymentStatus,
		Subtotal:           r.Subtotal,
		DeliveryFee:        r.DeliveryFee,
		Tax:                r.Tax,
		Discount:           r.Discount,
		Total:              r.Total,
		Street:             r.Street,
		City:               r.City,
		PostalCode:         r.PostalCode,
		Lat:                r.Lat,
		Lng:                r.Lng,
		Instructions:       r.Instructions,
		CancellationReason: r.CancellationReason,
		Items:              make([]OrderItemView, 0, len(items)),
		History:            make([]TrackingEventView, 0, len(events)),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		DeliveredAt:        r.DeliveredAt,
	}

	if r.CourierID != nil {
		courier := r.CourierID.String()
		view.CourierID = &courier
	}

	for _, item := range items {
		view.Items = append(view.Items, OrderItemView{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	for _, event := range events {
		view.History = append(view.History, TrackingEventView{
			Sequence: event.Sequence,
			Status:   event.Status,
			At:       event.At,
			Lat:      event.Lat,
			Lng:      event.Lng,
			Note:     event.Note,
		})
	}

	return view
}

// GetOrderQueryHandler reads a single order for one of its participants.
// The participant scope is part of the WHERE clause: an order the principal
// does not participate in is indistinguishable from a missing one.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	principalID := query.Principal().ID().Bytes()

	var row orderRow
	result := h.db.WithContext(ctx).Raw(`
		SELECT *
		FROM orders
		WHERE id = ?
		  AND (customer_id = ? OR merchant_id = ? OR courier_id = ?)
	`, query.OrderID().Bytes(), principalID, principalID, principalID).
		Scan(&row)
	if result.Error != nil {
		return OrderView{}, result.Error
	}
	if result.RowsAffected == 0 {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	items, events, err := loadOrderDetails(ctx, h.db, row.ID)
	if err != nil {
		return OrderView{}, err
	}

	return row.toView(items, events), nil
}

func loadOrderDetails(ctx context.Context, db *gorm.DB, orderID uuid.UUID) ([]orderItemRow, []trackingEventRow, error) {
	var items []orderItemRow
	if err := db.WithContext(ctx).Raw(`
		SELECT order_id, product_id, name, quantity, unit_price, line_total
		FROM order_items
		WHERE order_id = ?
	`, orderID).Scan(&items).Error; err != nil {
		return nil, nil, err
	}

	var events []trackingEventRow
	if err := db.WithContext(ctx).Raw(`
		SELECT order_id, sequence, status, at, lat, lng, note
		FROM tracking_events
		WHERE order_id = ?
		ORDER BY sequence
	`, orderID).Scan(&events).Error; err != nil {
		return nil, nil, err
	}

	return items, events, nil
}
