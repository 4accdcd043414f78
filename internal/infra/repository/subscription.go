package repository

import (
	"context"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/db"
	"github.com/Meet5113/greencart-backend/internal/infra/repository/converter"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	subscriptionColumns = `id, user_id, product_id, quantity, frequency, start_date, next_delivery_date, status, created_at, updated_at`

	createSubscriptionSQL = `
INSERT INTO subscriptions (` + subscriptionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	findSubscriptionByIDSQL = `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`

	findDueSubscriptionsSQL = `
SELECT ` + subscriptionColumns + `
FROM subscriptions
WHERE status = 'active' AND next_delivery_date <= $1
ORDER BY next_delivery_date, id`

	moveNextDeliverySQL = `
UPDATE subscriptions SET next_delivery_date = $3, updated_at = $4
WHERE id = $1 AND next_delivery_date = $2`

	updateSubscriptionStatusSQL = `
UPDATE subscriptions SET status = $2, updated_at = $3
WHERE id = $1`
)

type SubscriptionRepository struct {
	db db.DBTX
}

func NewSubscriptionRepository(db db.DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	_, err := r.db.Exec(ctx, createSubscriptionSQL,
		s.ID(),
		s.UserID(),
		s.ProductID(),
		s.Quantity(),
		s.Frequency().String(),
		pgconv.TimeToPgtype(s.StartDate()),
		pgconv.TimeToPgtype(s.NextDelivery()),
		s.Status().String(),
		pgconv.TimeToPgtype(s.CreatedAt()),
		pgconv.TimeToPgtype(s.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create subscription", err)
	}
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	row, err := scanSubscription(r.db.QueryRow(ctx, findSubscriptionByIDSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find subscription", err)
	}
	return converter.SubscriptionFromRow(row), nil
}

func (r *SubscriptionRepository) FindDue(ctx context.Context, now time.Time) ([]*subscription.Subscription, error) {
	rows, err := r.db.Query(ctx, findDueSubscriptionsSQL, pgconv.TimeToPgtype(now))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find due subscriptions", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		row, err := scanSubscription(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan subscription", err)
		}
		subs = append(subs, converter.SubscriptionFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate due subscriptions", err)
	}
	return subs, nil
}

func (r *SubscriptionRepository) MoveNextDelivery(ctx context.Context, id uuid.UUID, from, to, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, moveNextDeliverySQL,
		id, pgconv.TimeToPgtype(from), pgconv.TimeToPgtype(to), pgconv.TimeToPgtype(at),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to move next delivery date", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status subscription.Status, at time.Time) error {
	tag, err := r.db.Exec(ctx, updateSubscriptionStatusSQL, id, status.String(), pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to update subscription status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewNotFound("subscription not found")
	}
	return nil
}

func scanSubscription(row pgx.Row) (converter.SubscriptionRow, error) {
	var r converter.SubscriptionRow
	err := row.Scan(
		&r.ID, &r.UserID, &r.ProductID, &r.Quantity, &r.Frequency,
		&r.StartDate, &r.NextDeliveryDate, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}
