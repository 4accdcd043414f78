package shared

import (
	"context"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/cart"
	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for multi-row writes with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to one transaction. Stock is deliberately
// absent: reservations are single-row conditional updates outside any
// transaction and are undone by compensation, not rollback.
type Tx interface {
	Orders() OrderRepository
	Carts() CartRepository
	Subscriptions() SubscriptionRepository
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*product.Product, error)
	// FindByIDs returns the products that exist; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*product.Product, error)
}

// StockLedger is the only writer of product stock.
type StockLedger interface {
	// TryReserve decrements stock by quantity in one atomic step, and only
	// when the product is active, tracked and holds at least quantity.
	// It reports false when that condition was not met.
	TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
	// Release increments stock by quantity, reversing a reservation.
	Release(ctx context.Context, productID uuid.UUID, quantity int) error
}

type SubscriptionOrderLookup struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	PaymentMethod string
	From          time.Time // inclusive
	To            time.Time // exclusive
}

type OrderRepository interface {
	// Create persists the order together with its line items.
	Create(ctx context.Context, o *order.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	// UpdateStatus writes to only if the stored status is still from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status, at time.Time) (bool, error)
	// FindSubscriptionOrder returns nil when no single-item order matches.
	FindSubscriptionOrder(ctx context.Context, q SubscriptionOrderLookup) (*order.Order, error)
}

type CartRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	// Save replaces the stored items and total with the cart's current state.
	Save(ctx context.Context, c *cart.Cart) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, s *subscription.Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error)
	// FindDue lists active subscriptions whose next delivery is at or before now.
	FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error)
	// MoveNextDelivery writes to only if the stored next delivery is still
	// from, so a cycle is claimed by at most one concurrent run.
	MoveNextDelivery(ctx context.Context, id uuid.UUID, from, to, at time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status subscription.Status, at time.Time) error
}

// AuditSink receives fire-and-forget notifications of state changes.
// Implementations must not block and must not fail the caller.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}
