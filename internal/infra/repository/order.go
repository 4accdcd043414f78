package repository

import (
	"context"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/infra/repository/converter"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	orderColumns = `o.id, o.user_id, o.total_amount, o.payment_method, o.status, o.is_paid, o.created_at, o.updated_at`

	createOrderSQL = `
INSERT INTO orders (id, user_id, total_amount, payment_method, status, is_paid, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	createOrderItemsSQL = `
INSERT INTO order_items (order_id, position, product_id, quantity)
SELECT $1, t.position, t.product_id, t.quantity
FROM unnest($2::int[], $3::uuid[], $4::int[]) AS t(position, product_id, quantity)`

	deleteOrderSQL = `DELETE FROM orders WHERE id = $1`

	findOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders o WHERE o.id = $1`

	findOrderItemsSQL = `
SELECT product_id, quantity FROM order_items
WHERE order_id = $1
ORDER BY position`

	updateOrderStatusSQL = `
UPDATE orders SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2`

	// Matches an order holding exactly one line with this product and quantity.
	findSubscriptionOrderSQL = `
SELECT ` + orderColumns + `
FROM orders o
WHERE o.user_id = $1
  AND o.payment_method = $2
  AND o.created_at >= $3 AND o.created_at < $4
  AND (SELECT count(*) FROM order_items i WHERE i.order_id = o.id) = 1
  AND EXISTS (
    SELECT 1 FROM order_items i
    WHERE i.order_id = o.id AND i.product_id = $5 AND i.quantity = $6
  )
ORDER BY o.created_at DESC
LIMIT 1`
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(db db.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create writes the order and its items. Run it inside a unit of work so
// both land or neither does.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.db.Exec(ctx, createOrderSQL,
		o.ID(),
		o.UserID(),
		pgconv.DecimalToNumeric(o.Total()),
		o.PaymentMethod(),
		o.Status().String(),
		o.Paid(),
		pgconv.TimeToPgtype(o.CreatedAt()),
		pgconv.TimeToPgtype(o.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	items := o.Items()
	positions := make([]int32, len(items))
	productIDs := make([]uuid.UUID, len(items))
	quantities := make([]int32, len(items))
	for i, item := range items {
		positions[i] = int32(i) // #nosec G115 -- bounded by the number of line items
		productIDs[i] = item.ProductID
		quantities[i] = int32(item.Quantity) // #nosec G115 -- validated to fit int4
	}
	if _, err := r.db.Exec(ctx, createOrderItemsSQL, o.ID(), positions, productIDs, quantities); err != nil {
		return infra.WrapRepoErr("failed to create order items", err)
	}
	return nil
}

// Delete hard-deletes an order that never got its stock. Items cascade.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, deleteOrderSQL, id); err != nil {
		return infra.WrapRepoErr("failed to delete order", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, findOrderByIDSQL, id)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to order.Status, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, updateOrderStatusSQL, id, from.String(), to.String(), pgconv.TimeToPgtype(at))
	if err != nil {
		return false, infra.WrapRepoErr("failed to update order status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) FindSubscriptionOrder(ctx context.Context, q shared.SubscriptionOrderLookup) (*order.Order, error) {
	o, err := r.findOne(ctx, findSubscriptionOrderSQL,
		q.UserID,
		q.PaymentMethod,
		pgconv.TimeToPgtype(q.From),
		pgconv.TimeToPgtype(q.To),
		q.ProductID,
		q.Quantity,
	)
	if infra.IsKind(err, infra.KindNotFound) {
		return nil, nil
	}
	return o, err
}

func (r *OrderRepository) findOne(ctx context.Context, query string, args ...any) (*order.Order, error) {
	var row converter.OrderRow
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&row.ID, &row.UserID, &row.TotalAmount, &row.PaymentMethod,
		&row.Status, &row.IsPaid, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.findItems(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	o, err := converter.OrderFromRow(row, items)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to convert order", err)
	}
	return o, nil
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.LineItem, error) {
	rows, err := r.db.Query(ctx, findOrderItemsSQL, orderID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order items", err)
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  int32
		)
		if err := rows.Scan(&productID, &quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, order.LineItem{ProductID: productID, Quantity: int(quantity)})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}
