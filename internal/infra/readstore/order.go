package readstore

import (
	"context"

	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	orderViewColumns = `o.id, o.user_id, o.total_amount, o.payment_method, o.status, o.is_paid, o.created_at, o.updated_at`

	getOrderViewSQL = `SELECT ` + orderViewColumns + ` FROM orders o WHERE o.id = $1`

	// $1 user filter and $2/$3 keyset are each optional.
	listOrderViewsSQL = `
SELECT ` + orderViewColumns + `
FROM orders o
WHERE ($1::uuid IS NULL OR o.user_id = $1)
  AND ($2::timestamptz IS NULL OR (o.created_at, o.id) < ($2, $3::uuid))
ORDER BY o.created_at DESC, o.id DESC
LIMIT $4`

	listOrderItemViewsSQL = `
SELECT oi.order_id, oi.product_id, COALESCE(p.name, ''), oi.quantity
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
WHERE oi.order_id = ANY($1)
ORDER BY oi.order_id, oi.position`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(db db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: db}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	v, err := scanOrderView(r.db.QueryRow(ctx, getOrderViewSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get order view by id", err)
	}
	if err := r.attachItems(ctx, []*queries.OrderView{v}); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *OrderReadStore) List(ctx context.Context, userID *uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.OrderView, error) {
	createdAt, lastID := keysetArgs(after)
	rows, err := r.db.Query(ctx, listOrderViewsSQL, userID, createdAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list order views", err)
	}
	defer rows.Close()

	views := make([]*queries.OrderView, 0, limit)
	for rows.Next() {
		v, err := scanOrderView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order views", err)
	}
	rows.Close()

	if err := r.attachItems(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

// attachItems loads the items of every view in one query.
func (r *OrderReadStore) attachItems(ctx context.Context, views []*queries.OrderView) error {
	if len(views) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*queries.OrderView, len(views))
	ids := make([]uuid.UUID, len(views))
	for i, v := range views {
		v.Items = []queries.OrderItemView{}
		byID[v.ID] = v
		ids[i] = v.ID
	}

	rows, err := r.db.Query(ctx, listOrderItemViewsSQL, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to list order item views", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID  uuid.UUID
			item     queries.OrderItemView
			quantity int32
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &quantity); err != nil {
			return infra.WrapRepoErr("failed to scan order item view", err)
		}
		item.Quantity = int(quantity)
		if v, ok := byID[orderID]; ok {
			v.Items = append(v.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to iterate order item views", err)
	}
	return nil
}

func scanOrderView(row pgx.Row) (*queries.OrderView, error) {
	var (
		v                    queries.OrderView
		total                pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&v.ID, &v.UserID, &total, &v.PaymentMethod, &v.Status, &v.IsPaid, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	amount, err := pgconv.DecimalFromNumeric(total)
	if err != nil {
		return nil, err
	}
	v.TotalAmount = amount
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
	return &v, nil
}

func keysetArgs(after *queries.Keyset) (pgtype.Timestamptz, *uuid.UUID) {
	if after == nil {
		return pgtype.Timestamptz{}, nil
	}
	id := after.ID
	return pgconv.TimeToPgtype(after.CreatedAt), &id
}
