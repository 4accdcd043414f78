package order

import (
	"strings"
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoLineItems      = errs.New("order must contain at least one line item")
	ErrNegativeTotal    = errs.New("order total must not be negative")
	ErrInvalidLineOwner = errs.New("line item references no product")
)

// Order holds a price snapshot taken at creation. Line items and total never
// change afterwards; only status and the paid flag do.
type Order struct {
	id            uuid.UUID
	userID        uuid.UUID
	items         []LineItem
	total         decimal.Decimal
	paymentMethod string
	status        Status
	paid          bool
	createdAt     time.Time
	updatedAt     time.Time
}

func NewOrder(userID uuid.UUID, items []LineItem, total decimal.Decimal, paymentMethod string, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, ErrInvalidLineOwner
		}
		if item.Quantity < 1 {
			return nil, errs.Mark(errs.Newf("quantity %d must be at least 1", item.Quantity), errs.ErrInvalidLineItem)
		}
	}
	if total.IsNegative() {
		return nil, ErrNegativeTotal
	}

	return &Order{
		id:            uuid.New(),
		userID:        userID,
		items:         append([]LineItem(nil), items...),
		total:         total,
		paymentMethod: strings.TrimSpace(paymentMethod),
		status:        StatusPending,
		paid:          false,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func ReconstructOrder(
	id, userID uuid.UUID,
	items []LineItem,
	total decimal.Decimal,
	paymentMethod string,
	status Status,
	paid bool,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		userID:        userID,
		items:         append([]LineItem(nil), items...),
		total:         total,
		paymentMethod: paymentMethod,
		status:        status,
		paid:          paid,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (o *Order) ID() uuid.UUID          { return o.id }
func (o *Order) UserID() uuid.UUID      { return o.userID }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) PaymentMethod() string  { return o.paymentMethod }
func (o *Order) Status() Status         { return o.status }
func (o *Order) Paid() bool             { return o.paid }
func (o *Order) CreatedAt() time.Time   { return o.createdAt }
func (o *Order) UpdatedAt() time.Time   { return o.updatedAt }
func (o *Order) Items() []LineItem      { return append([]LineItem(nil), o.items...) }

func (o *Order) HasSingleItem(productID uuid.UUID, quantity int) bool {
	return len(o.items) == 1 && o.items[0].ProductID == productID && o.items[0].Quantity == quantity
}

// TransitionTo applies next if the status table allows it. Requesting the
// current status succeeds without change and reports changed=false.
func (o *Order) TransitionTo(next Status, now time.Time) (changed bool, err error) {
	if o.status == next {
		return false, nil
	}
	if !o.status.CanTransitionTo(next) {
		return false, errs.Mark(
			errs.Newf("invalid status transition from %s to %s", o.status, next),
			errs.ErrInvalidTransition,
		)
	}
	o.status = next
	o.updatedAt = now
	return true, nil
}
