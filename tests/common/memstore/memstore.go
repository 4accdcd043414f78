//go:build unit || e2e || integration

// Package memstore is an in-memory implementation of the usecase ports. Its
// stock ledger honours the same conditional-update contract as the SQL one so
// that concurrency properties can be tested without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/cart"
	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type productRow struct {
	name   string
	price  decimal.Decimal
	stock  *int
	active bool
}

type orderRow struct {
	id            uuid.UUID
	userID        uuid.UUID
	items         []order.LineItem
	total         decimal.Decimal
	paymentMethod string
	status        order.Status
	paid          bool
	createdAt     time.Time
	updatedAt     time.Time
}

type subscriptionRow struct {
	id           uuid.UUID
	userID       uuid.UUID
	productID    uuid.UUID
	quantity     int
	frequency    subscription.Frequency
	startDate    time.Time
	nextDelivery time.Time
	status       subscription.Status
	createdAt    time.Time
	updatedAt    time.Time
}

type cartRow struct {
	id        uuid.UUID
	items     []cart.Item
	total     decimal.Decimal
	updatedAt time.Time
}

type Store struct {
	mu            sync.Mutex
	products      map[uuid.UUID]*productRow
	orders        map[uuid.UUID]*orderRow
	carts         map[uuid.UUID]*cartRow // by user id
	subscriptions map[uuid.UUID]*subscriptionRow
	events        []shared.AuditEvent

	// Fault injection. A non-nil function is consulted before the write.
	ReleaseErr     func(productID uuid.UUID) error
	DeleteOrderErr error
	CreateOrderErr error
	SaveCartErr    error
}

func New() *Store {
	return &Store{
		products:      map[uuid.UUID]*productRow{},
		orders:        map[uuid.UUID]*orderRow{},
		carts:         map[uuid.UUID]*cartRow{},
		subscriptions: map[uuid.UUID]*subscriptionRow{},
	}
}

// AddProduct seeds a product. A nil stock means stock is not tracked.
func (s *Store) AddProduct(name string, price string, stock *int, active bool) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.products[id] = &productRow{name: name, price: decimal.RequireFromString(price), stock: copyInt(stock), active: active}
	return id
}

// Stock returns the current stock and whether it is tracked.
func (s *Store) Stock(productID uuid.UUID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok || p.stock == nil {
		return 0, false
	}
	return *p.stock, true
}

func (s *Store) SetActive(productID uuid.UUID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID].active = active
}

func (s *Store) Orders() []*order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*order.Order, 0, len(s.orders))
	for _, row := range s.orders {
		out = append(out, row.toDomain())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().Before(out[j].CreatedAt()) })
	return out
}

func (s *Store) Events() []shared.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.AuditEvent(nil), s.events...)
}

func (s *Store) PutCart(c *cart.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.UserID()] = &cartRow{id: c.ID(), items: c.Items(), total: c.Total(), updatedAt: c.UpdatedAt()}
}

func (s *Store) PutSubscription(sub *subscription.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[sub.ID()] = subscriptionRowFrom(sub)
}

// SetNextDelivery overwrites a subscription's next delivery date, bypassing
// the compare-and-swap.
func (s *Store) SetNextDelivery(id uuid.UUID, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions[id].nextDelivery = next
}

// ProductRepository

func (s *Store) FindByID(_ context.Context, id uuid.UUID) (*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, infra.NewNotFound("product not found")
	}
	return product.ReconstructProduct(id, p.name, p.price, copyInt(p.stock), p.active), nil
}

func (s *Store) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, product.ReconstructProduct(id, p.name, p.price, copyInt(p.stock), p.active))
		}
	}
	return out, nil
}

// StockLedger

func (s *Store) TryReserve(_ context.Context, productID uuid.UUID, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok || !p.active || p.stock == nil || *p.stock < quantity {
		return false, nil
	}
	*p.stock -= quantity
	return true, nil
}

func (s *Store) Release(_ context.Context, productID uuid.UUID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReleaseErr != nil {
		if err := s.ReleaseErr(productID); err != nil {
			return err
		}
	}
	if p, ok := s.products[productID]; ok && p.stock != nil {
		*p.stock += quantity
	}
	return nil
}

// UnitOfWork. Writes are applied immediately; there is no rollback.

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, txView{s})
}

type txView struct{ s *Store }

func (t txView) Orders() shared.OrderRepository               { return OrderRepo{t.s} }
func (t txView) Carts() shared.CartRepository                 { return CartRepo{t.s} }
func (t txView) Subscriptions() shared.SubscriptionRepository { return SubscriptionRepo{t.s} }

// AuditSink

func (s *Store) Record(_ context.Context, event shared.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

type OrderRepo struct{ s *Store }

func (s *Store) OrderRepo() OrderRepo { return OrderRepo{s} }

func (r OrderRepo) Create(_ context.Context, o *order.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.CreateOrderErr != nil {
		return r.s.CreateOrderErr
	}
	r.s.orders[o.ID()] = &orderRow{
		id:            o.ID(),
		userID:        o.UserID(),
		items:         o.Items(),
		total:         o.Total(),
		paymentMethod: o.PaymentMethod(),
		status:        o.Status(),
		paid:          o.Paid(),
		createdAt:     o.CreatedAt(),
		updatedAt:     o.UpdatedAt(),
	}
	return nil
}

func (r OrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.DeleteOrderErr != nil {
		return r.s.DeleteOrderErr
	}
	delete(r.s.orders, id)
	return nil
}

func (r OrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.orders[id]
	if !ok {
		return nil, infra.NewNotFound("order not found")
	}
	return row.toDomain(), nil
}

func (r OrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to order.Status, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.orders[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	row.updatedAt = at
	return true, nil
}

func (r OrderRepo) FindSubscriptionOrder(_ context.Context, q shared.SubscriptionOrderLookup) (*order.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.orders {
		if row.userID != q.UserID || row.paymentMethod != q.PaymentMethod {
			continue
		}
		if row.createdAt.Before(q.From) || !row.createdAt.Before(q.To) {
			continue
		}
		o := row.toDomain()
		if o.HasSingleItem(q.ProductID, q.Quantity) {
			return o, nil
		}
	}
	return nil, nil
}

type CartRepo struct{ s *Store }

func (s *Store) CartRepo() CartRepo { return CartRepo{s} }

func (r CartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.carts[userID]
	if !ok {
		return nil, infra.NewNotFound("cart not found")
	}
	return cart.ReconstructCart(row.id, userID, row.items, row.total, row.updatedAt), nil
}

func (r CartRepo) Save(_ context.Context, c *cart.Cart) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.SaveCartErr != nil {
		return r.s.SaveCartErr
	}
	r.s.carts[c.UserID()] = &cartRow{id: c.ID(), items: c.Items(), total: c.Total(), updatedAt: c.UpdatedAt()}
	return nil
}

type SubscriptionRepo struct{ s *Store }

func (s *Store) SubscriptionRepo() SubscriptionRepo { return SubscriptionRepo{s} }

func (r SubscriptionRepo) Create(_ context.Context, sub *subscription.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subscriptions[sub.ID()] = subscriptionRowFrom(sub)
	return nil
}

func (r SubscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.subscriptions[id]
	if !ok {
		return nil, infra.NewNotFound("subscription not found")
	}
	return row.toDomain(), nil
}

func (r SubscriptionRepo) FindDue(_ context.Context, now time.Time) ([]*subscription.Subscription, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*subscription.Subscription
	for _, row := range r.s.subscriptions {
		if row.status == subscription.StatusActive && !row.nextDelivery.After(now) {
			out = append(out, row.toDomain())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextDelivery().Before(out[j].NextDelivery()) })
	return out, nil
}

func (r SubscriptionRepo) MoveNextDelivery(_ context.Context, id uuid.UUID, from, to, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.subscriptions[id]
	if !ok || !row.nextDelivery.Equal(from) {
		return false, nil
	}
	row.nextDelivery = to
	row.updatedAt = at
	return true, nil
}

func (r SubscriptionRepo) UpdateStatus(_ context.Context, id uuid.UUID, status subscription.Status, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.subscriptions[id]
	if !ok {
		return infra.NewNotFound("subscription not found")
	}
	row.status = status
	row.updatedAt = at
	return nil
}

func (row *orderRow) toDomain() *order.Order {
	return order.ReconstructOrder(row.id, row.userID, row.items, row.total, row.paymentMethod, row.status, row.paid, row.createdAt, row.updatedAt)
}

func (row *subscriptionRow) toDomain() *subscription.Subscription {
	return subscription.ReconstructSubscription(
		row.id, row.userID, row.productID,
		row.quantity,
		row.frequency,
		row.startDate, row.nextDelivery,
		row.status,
		row.createdAt, row.updatedAt,
	)
}

func subscriptionRowFrom(sub *subscription.Subscription) *subscriptionRow {
	return &subscriptionRow{
		id:           sub.ID(),
		userID:       sub.UserID(),
		productID:    sub.ProductID(),
		quantity:     sub.Quantity(),
		frequency:    sub.Frequency(),
		startDate:    sub.StartDate(),
		nextDelivery: sub.NextDelivery(),
		status:       sub.Status(),
		createdAt:    sub.CreatedAt(),
		updatedAt:    sub.UpdatedAt(),
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
