package http

import (
	"time"

	"fulfillment/internal/core/domain/model/chat"
	"fulfillment/internal/core/domain/model/order"
)

type orderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type addressRequest struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	PostalCode string   `json:"postalCode"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type createOrderRequest struct {
	Items         []orderItemRequest `json:"items"`
	Address       addressRequest     `json:"address"`
	PaymentMethod string             `json:"paymentMethod"`
	Instructions  string             `json:"instructions"`
}

type updateStatusRequest struct {
	Status string   `json:"status"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	Note   string   `json:"note"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type sendMessageRequest struct {
	Text   string `json:"text"`
	TempID string `json:"tempId"`
}

type latLngRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type optimizeRouteRequest struct {
	Start latLngRequest   `json:"start"`
	Stops []latLngRequest `json:"stops"`
}

type orderItemResponse struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LineTotal float64 `json:"lineTotal"`
}

type chargesResponse struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

type addressResponse struct {
	Street     string   `json:"street"`
	City       string   `json:"city"`
	PostalCode string   `json:"postalCode"`
	Lat        *float64 `json:"lat,omitempty"`
	Lng        *float64 `json:"lng,omitempty"`
}

type trackingEventResponse struct {
	Sequence int       `json:"sequence"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
	Lat      *float64  `json:"lat,omitempty"`
	Lng      *float64  `json:"lng,omitempty"`
	Note     string    `json:"note,omitempty"`
}

type orderResponse struct {
	ID                 string                  `json:"id"`
	Number             string                  `json:"number"`
	CustomerID         string                  `json:"customerId"`
	MerchantID         string                  `json:"merchantId"`
	CourierID          *string                 `json:"courierId,omitempty"`
	Status             string                  `json:"status"`
	PaymentMethod      string                  `json:"paymentMethod"`
	PaymentStatus      string                  `json:"paymentStatus"`
	Items              []orderItemResponse     `json:"items"`
	Charges            chargesResponse         `json:"charges"`
	Address            addressResponse         `json:"address"`
	Instructions       string                  `json:"instructions,omitempty"`
	CancellationReason string                  `json:"cancellationReason,omitempty"`
	Tracking           []trackingEventResponse `json:"tracking"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
	DeliveredAt        *time.Time              `json:"deliveredAt,omitempty"`
}

type messageResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	SenderID    string    `json:"senderId"`
	RecipientID string    `json:"recipientId"`
	Text        string    `json:"text"`
	TempID      string    `json:"tempId,omitempty"`
	SentAt      time.Time `json:"sentAt"`
}

func toOrderResponse(aggregate *order.Order) orderResponse {
	var courierID *string
	if courier := aggregate.Courier(); courier != nil {
		id := courier.String()
		courierID = &id
	}

	items := make([]orderItemResponse, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			LineTotal: item.LineTotal(),
		})
	}

	tracking := make([]trackingEventResponse, 0, len(aggregate.History()))
	for _, event := range aggregate.History() {
		entry := trackingEventResponse{
			Sequence: event.Sequence(),
			Status:   event.Status().String(),
			At:       event.At(),
			Note:     event.Note(),
		}
		if point := event.Location(); point != nil {
			lat, lng := point.Lat(), point.Lng()
			entry.Lat, entry.Lng = &lat, &lng
		}
		tracking = append(tracking, entry)
	}

	address := aggregate.Address()
	addressOut := addressResponse{
		Street:     address.Street(),
		City:       address.City(),
		PostalCode: address.PostalCode(),
	}
	if point := address.Point(); point != nil {
		lat, lng := point.Lat(), point.Lng()
		addressOut.Lat, addressOut.Lng = &lat, &lng
	}

	charges := aggregate.Charges()
	chargesOut := chargesResponse{
		Subtotal:    charges.Subtotal,
		DeliveryFee: charges.DeliveryFee,
		Tax:         charges.Tax,
		Discount:    charges.Discount,
		Total:       charges.Total,
	}

	return orderResponse{
		ID:                 aggregate.ID().String(),
		Number:             aggregate.Number(),
		CustomerID:         aggregate.Customer().String(),
		MerchantID:         aggregate.Merchant().String(),
		CourierID:          courierID,
		Status:             aggregate.Status().String(),
		PaymentMethod:      aggregate.PaymentMethod().String(),
		PaymentStatus:      aggregate.PaymentStatus().String(),
		Items:              items,
		Charges:            chargesOut,
		Address:            addressOut,
		Instructions:       aggregate.Instructions(),
		CancellationReason: aggregate.CancellationReason(),
		Tracking:           tracking,
		CreatedAt:          aggregate.CreatedAt(),
		UpdatedAt:          aggregate.UpdatedAt(),
		DeliveredAt:        aggregate.DeliveredAt(),
	}
}

func toMessageResponse(message *chat.Message) messageResponse {
	return messageResponse{
		ID:          message.ID().String(),
		OrderID:     message.OrderID().String(),
		SenderID:    message.Sender().String(),
		RecipientID: message.Recipient().String(),
		Text:        message.Text(),
		TempID:      message.TempID(),
		SentAt:      message.SentAt(),
	}
}
