package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type SubscriptionReadStore interface {
	List(ctx context.Context, userID *uuid.UUID, after *Keyset, limit int32) ([]*SubscriptionView, error)
}

type SubscriptionQueries interface {
	ListMySubscriptions(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*SubscriptionView, *Cursor, error)
	ListAllSubscriptions(ctx context.Context, cursor *Cursor, limit int) ([]*SubscriptionView, *Cursor, error)
}

type subscriptionQueriesImpl struct {
	store SubscriptionReadStore
}

func NewSubscriptionQueries(store SubscriptionReadStore) SubscriptionQueries {
	return &subscriptionQueriesImpl{store: store}
}

func (q *subscriptionQueriesImpl) ListMySubscriptions(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*SubscriptionView, *Cursor, error) {
	return q.list(ctx, &userID, cursor, limit)
}

func (q *subscriptionQueriesImpl) ListAllSubscriptions(ctx context.Context, cursor *Cursor, limit int) ([]*SubscriptionView, *Cursor, error) {
	return q.list(ctx, nil, cursor, limit)
}

func (q *subscriptionQueriesImpl) list(ctx context.Context, userID *uuid.UUID, cursor *Cursor, limit int) ([]*SubscriptionView, *Cursor, error) {
	after, err := keysetFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)
	rows, err := q.store.List(ctx, userID, after, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}
	rows, next := page(rows, limit, func(v *SubscriptionView) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	})
	return rows, next, nil
}
