//go:build unit || e2e

package builder

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	reqdto "github.com/Meet5113/greencart-backend/internal/handler/dto/request"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderBuilder struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	ProductID     uuid.UUID
	ProductName   string
	Quantity      int
	Total         decimal.Decimal
	PaymentMethod string
	Status        order.Status
	Paid          bool
	CreatedAt     time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		ProductID:     uuid.New(),
		ProductName:   "Organic Apples",
		Quantity:      2,
		Total:         decimal.RequireFromString("9.00"),
		PaymentMethod: "COD",
		Status:        order.StatusPending,
		CreatedAt:     time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) BuildDomain() *order.Order {
	return order.ReconstructOrder(
		b.ID, b.UserID,
		[]order.LineItem{{ProductID: b.ProductID, Quantity: b.Quantity}},
		b.Total, b.PaymentMethod, b.Status, b.Paid,
		b.CreatedAt, b.CreatedAt,
	)
}

func (b *OrderBuilder) BuildView() *queries.OrderView {
	return &queries.OrderView{
		ID:     b.ID,
		UserID: b.UserID,
		Items: []queries.OrderItemView{
			{ProductID: b.ProductID, ProductName: b.ProductName, Quantity: b.Quantity},
		},
		TotalAmount:   b.Total,
		PaymentMethod: b.PaymentMethod,
		Status:        b.Status.String(),
		IsPaid:        b.Paid,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.CreatedAt,
	}
}

func (b *OrderBuilder) BuildPlaceRequestDTO() reqdto.PlaceOrderRequest {
	return reqdto.PlaceOrderRequest{
		OrderItems: []reqdto.LineItemRequest{
			{Product: b.ProductID.String(), Quantity: json.Number(strconv.Itoa(b.Quantity))},
		},
		PaymentMethod: b.PaymentMethod,
	}
}
