package request

import (
	"encoding/json"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
)

// LineItemRequest keeps both fields raw so malformed values surface as an
// invalid line item rather than a binding error.
type LineItemRequest struct {
	Product  string      `json:"product"`
	Quantity json.Number `json:"quantity"`
}

type PlaceOrderRequest struct {
	OrderItems    []LineItemRequest `json:"orderItems" binding:"required"`
	PaymentMethod string            `json:"paymentMethod" binding:"max=32"`
}

func (r *PlaceOrderRequest) ToRawLineItems() []order.RawLineItem {
	items := make([]order.RawLineItem, len(r.OrderItems))
	for i, it := range r.OrderItems {
		items[i] = order.RawLineItem{ProductID: it.Product, Quantity: it.Quantity.String()}
	}
	return items
}

type CheckoutRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"max=32"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
