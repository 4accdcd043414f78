//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"
	queriesmock "github.com/Meet5113/greencart-backend/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func orderViews(n int, newest time.Time) []*queries.OrderView {
	views := make([]*queries.OrderView, n)
	for i := range views {
		views[i] = &queries.OrderView{ID: uuid.New(), CreatedAt: newest.Add(-time.Duration(i) * time.Minute)}
	}
	return views
}

func TestOrderQueries_GetOrder(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	orderID := uuid.New()
	view := &queries.OrderView{ID: orderID, UserID: ownerID}

	testCases := []struct {
		name      string
		actorID   uuid.UUID
		actorRole string
		stored    *queries.OrderView
		storeErr  error
		wantErr   error
	}{
		{name: "owner sees own order", actorID: ownerID, actorRole: queries.RoleUser, stored: view},
		{name: "admin sees any order", actorID: uuid.New(), actorRole: queries.RoleAdmin, stored: view},
		{name: "other user gets not found", actorID: uuid.New(), actorRole: queries.RoleUser, stored: view, wantErr: errs.ErrOrderNotFound},
		{name: "missing order", actorID: ownerID, actorRole: queries.RoleUser, storeErr: infra.NewNotFound("order view"), wantErr: errs.ErrOrderNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := queriesmock.NewMockOrderReadStore(ctrl)
			store.EXPECT().FindByID(ctx, orderID).Return(tc.stored, tc.storeErr)

			got, err := queries.NewOrderQueries(store).GetOrder(ctx, tc.actorID, tc.actorRole, orderID)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, got.ID)
		})
	}
}

func TestOrderQueries_ListMyOrders_Paginates(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	newest := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	ctrl := gomock.NewController(t)
	store := queriesmock.NewMockOrderReadStore(ctrl)
	q := queries.NewOrderQueries(store)

	firstPage := orderViews(3, newest)
	store.EXPECT().List(ctx, &userID, (*queries.Keyset)(nil), int32(3)).Return(firstPage, nil)

	rows, next, err := q.ListMyOrders(ctx, userID, nil, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	require.NotNil(t, next)

	createdAt, id, err := queries.DecodeAfterCursor(next.After)
	require.NoError(t, err)
	assert.True(t, firstPage[1].CreatedAt.Equal(createdAt))
	assert.Equal(t, firstPage[1].ID, id)

	store.EXPECT().
		List(ctx, &userID, &queries.Keyset{CreatedAt: createdAt, ID: id}, int32(3)).
		Return(firstPage[2:], nil)

	rows, next, err = q.ListMyOrders(ctx, userID, next, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Nil(t, next)
}

func TestOrderQueries_ListAllOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("default limit without user filter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)
		store.EXPECT().
			List(ctx, (*uuid.UUID)(nil), (*queries.Keyset)(nil), int32(queries.DefaultListLimit+1)).
			Return([]*queries.OrderView{}, nil)

		rows, next, err := queries.NewOrderQueries(store).ListAllOrders(ctx, nil, 0)
		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.Nil(t, next)
	})

	t.Run("garbage cursor is rejected before querying", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := queriesmock.NewMockOrderReadStore(ctrl)

		_, _, err := queries.NewOrderQueries(store).ListAllOrders(ctx, &queries.Cursor{After: "not-a-cursor"}, 10)
		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
		assert.True(t, errs.Is(err, errs.ErrInvalidInput))
	})
}
