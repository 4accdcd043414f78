package readstore

import (
	"context"

	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listSubscriptionViewsSQL = `
SELECT s.id, s.user_id, s.product_id, COALESCE(p.name, ''), s.quantity, s.frequency,
       s.start_date, s.next_delivery_date, s.status, s.created_at, s.updated_at
FROM subscriptions s
LEFT JOIN products p ON p.id = s.product_id
WHERE ($1::uuid IS NULL OR s.user_id = $1)
  AND ($2::timestamptz IS NULL OR (s.created_at, s.id) < ($2, $3::uuid))
ORDER BY s.created_at DESC, s.id DESC
LIMIT $4`

type SubscriptionReadStore struct {
	db db.DBTX
}

func NewSubscriptionReadStore(db db.DBTX) *SubscriptionReadStore {
	return &SubscriptionReadStore{db: db}
}

func (r *SubscriptionReadStore) List(ctx context.Context, userID *uuid.UUID, after *queries.Keyset, limit int32) ([]*queries.SubscriptionView, error) {
	createdAt, lastID := keysetArgs(after)
	rows, err := r.db.Query(ctx, listSubscriptionViewsSQL, userID, createdAt, lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list subscription views", err)
	}
	defer rows.Close()

	views := make([]*queries.SubscriptionView, 0, limit)
	for rows.Next() {
		var (
			v                                 queries.SubscriptionView
			quantity                          int32
			start, next, createdAt, updatedAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&v.ID, &v.UserID, &v.ProductID, &v.ProductName, &quantity, &v.Frequency,
			&start, &next, &v.Status, &createdAt, &updatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan subscription view", err)
		}
		v.Quantity = int(quantity)
		v.StartDate = pgconv.TimeFromPgtype(start)
		v.NextDeliveryDate = pgconv.TimeFromPgtype(next)
		v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate subscription views", err)
	}
	return views, nil
}
