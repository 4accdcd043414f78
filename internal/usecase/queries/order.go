package queries

import (
	"context"
	"time"

	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	// List returns up to limit orders newest first, optionally for one user
	// and strictly after the given keyset.
	List(ctx context.Context, userID *uuid.UUID, after *Keyset, limit int32) ([]*OrderView, error)
}

type OrderQueries interface {
	GetOrder(ctx context.Context, actorID uuid.UUID, actorRole string, orderID uuid.UUID) (*OrderView, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderView, *Cursor, error)
	ListAllOrders(ctx context.Context, cursor *Cursor, limit int) ([]*OrderView, *Cursor, error)
}

type orderQueriesImpl struct {
	store OrderReadStore
}

func NewOrderQueries(store OrderReadStore) OrderQueries {
	return &orderQueriesImpl{store: store}
}

// GetOrder hides orders the actor may not see behind ErrOrderNotFound.
func (q *orderQueriesImpl) GetOrder(ctx context.Context, actorID uuid.UUID, actorRole string, orderID uuid.UUID) (*OrderView, error) {
	v, err := q.store.FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, err
	}
	if actorRole != RoleAdmin && v.UserID != actorID {
		return nil, errs.ErrOrderNotFound
	}
	return v, nil
}

func (q *orderQueriesImpl) ListMyOrders(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderView, *Cursor, error) {
	return q.list(ctx, &userID, cursor, limit)
}

func (q *orderQueriesImpl) ListAllOrders(ctx context.Context, cursor *Cursor, limit int) ([]*OrderView, *Cursor, error) {
	return q.list(ctx, nil, cursor, limit)
}

func (q *orderQueriesImpl) list(ctx context.Context, userID *uuid.UUID, cursor *Cursor, limit int) ([]*OrderView, *Cursor, error) {
	after, err := keysetFrom(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)
	rows, err := q.store.List(ctx, userID, after, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}
	rows, next := page(rows, limit, orderKey)
	return rows, next, nil
}

func orderKey(v *OrderView) (time.Time, uuid.UUID) { return v.CreatedAt, v.ID }
