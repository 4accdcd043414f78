package response

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type OrderItemResponse struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Quantity    int       `json:"quantity"`
}

type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        uuid.UUID           `json:"userId"`
	Items         []OrderItemResponse `json:"orderItems"`
	TotalAmount   string              `json:"totalAmount"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        string              `json:"status"`
	IsPaid        bool                `json:"isPaid"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

type PlaceOrderResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order"`
}

type OrderListResponse struct {
	Orders     []*OrderResponse `json:"orders"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// moneyOption renders decimals with two places wherever copier meets one.
var moneyOption = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: decimal.Decimal{},
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			return src.(decimal.Decimal).StringFixed(2), nil
		},
	}},
}

func FromOrder(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return &OrderResponse{
		ID:            o.ID(),
		UserID:        o.UserID(),
		Items:         items,
		TotalAmount:   o.Total().StringFixed(2),
		PaymentMethod: o.PaymentMethod(),
		Status:        o.Status().String(),
		IsPaid:        o.Paid(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}
}

func FromOrderView(v *queries.OrderView) (*OrderResponse, error) {
	res := &OrderResponse{}
	if err := copier.CopyWithOption(res, v, moneyOption); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []OrderItemResponse{}
	}
	return res, nil
}

func FromOrderViews(views []*queries.OrderView, next *queries.Cursor) (*OrderListResponse, error) {
	res := &OrderListResponse{Orders: make([]*OrderResponse, 0, len(views))}
	for _, v := range views {
		o, err := FromOrderView(v)
		if err != nil {
			return nil, err
		}
		res.Orders = append(res.Orders, o)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}
