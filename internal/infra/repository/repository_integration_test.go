//go:build integration

package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/cart"
	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/infra/repository"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"
	"github.com/Meet5113/greencart-backend/tests/common/dbtest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryIntegrationSuite struct {
	suite.Suite
	pool *pgxpool.Pool
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	s.pool, _ = dbtest.NewDatabase(s.T())
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.pool))
}

func intPtr(v int) *int { return &v }

func (s *RepositoryIntegrationSuite) TestTryReserve_ConcurrentCallersNeverOversell() {
	t := s.T()
	ctx := context.Background()
	productID := dbtest.CreateTestProduct(t, s.pool, "Carrots", "1.50", intPtr(10), true)
	repo := repository.NewProductRepository(s.pool)

	const callers = 30
	var (
		wg       sync.WaitGroup
		reserved atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.TryReserve(ctx, productID, 1)
			if err != nil {
				t.Errorf("reserve failed: %v", err)
				return
			}
			if ok {
				reserved.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), reserved.Load())
	assert.Equal(t, 0, *dbtest.ProductStock(t, s.pool, productID))
}

func (s *RepositoryIntegrationSuite) TestTryReserve_RefusesIneligibleProducts() {
	t := s.T()
	ctx := context.Background()
	repo := repository.NewProductRepository(s.pool)

	inactive := dbtest.CreateTestProduct(t, s.pool, "Inactive", "1.00", intPtr(5), false)
	untracked := dbtest.CreateTestProduct(t, s.pool, "Untracked", "1.00", nil, true)
	short := dbtest.CreateTestProduct(t, s.pool, "Short", "1.00", intPtr(1), true)

	for _, id := range []uuid.UUID{inactive, untracked, short, uuid.New()} {
		ok, err := repo.TryReserve(ctx, id, 2)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	assert.Equal(t, 5, *dbtest.ProductStock(t, s.pool, inactive))
	assert.Nil(t, dbtest.ProductStock(t, s.pool, untracked))
	assert.Equal(t, 1, *dbtest.ProductStock(t, s.pool, short))

	require.NoError(t, repo.Release(ctx, short, 2))
	assert.Equal(t, 3, *dbtest.ProductStock(t, s.pool, short))
}

func (s *RepositoryIntegrationSuite) TestFindByIDs_OmitsMissing() {
	t := s.T()
	a := dbtest.CreateTestProduct(t, s.pool, "A", "2.25", intPtr(3), true)
	b := dbtest.CreateTestProduct(t, s.pool, "B", "0.99", nil, false)

	products, err := repository.NewProductRepository(s.pool).FindByIDs(context.Background(), []uuid.UUID{a, uuid.New(), b})
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := map[uuid.UUID]string{}
	for _, p := range products {
		byID[p.ID()] = p.Price().StringFixed(2)
	}
	assert.Equal(t, map[uuid.UUID]string{a: "2.25", b: "0.99"}, byID)
}

func (s *RepositoryIntegrationSuite) TestOrder_CreateFindDelete() {
	t := s.T()
	ctx := context.Background()
	a := dbtest.CreateTestProduct(t, s.pool, "A", "1.00", intPtr(10), true)
	b := dbtest.CreateTestProduct(t, s.pool, "B", "2.00", intPtr(10), true)
	repo := repository.NewOrderRepository(s.pool)

	items := []order.LineItem{{ProductID: a, Quantity: 2}, {ProductID: b, Quantity: 1}, {ProductID: a, Quantity: 3}}
	now := time.Now().UTC().Truncate(time.Microsecond)
	o, err := order.NewOrder(uuid.New(), items, decimal.RequireFromString("7.00"), "COD", now)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	if diff := cmp.Diff(items, got.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "7.00", got.Total().StringFixed(2))
	assert.Equal(t, order.StatusPending, got.Status())
	assert.True(t, now.Equal(got.CreatedAt()))

	ok, err := repo.UpdateStatus(ctx, o.ID(), order.StatusPending, order.StatusConfirmed, now)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.UpdateStatus(ctx, o.ID(), order.StatusPending, order.StatusCancelled, now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Delete(ctx, o.ID()))
	_, err = repo.FindByID(ctx, o.ID())
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.Equal(t, 0, dbtest.CountRows(t, s.pool, "order_items"))
}

func (s *RepositoryIntegrationSuite) TestOrder_FindSubscriptionOrder() {
	t := s.T()
	ctx := context.Background()
	productID := dbtest.CreateTestProduct(t, s.pool, "Milk", "1.20", intPtr(10), true)
	other := dbtest.CreateTestProduct(t, s.pool, "Bread", "3.00", intPtr(10), true)
	repo := repository.NewOrderRepository(s.pool)
	userID := uuid.New()
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	create := func(items []order.LineItem, pm string, at time.Time) *order.Order {
		o, err := order.NewOrder(userID, items, decimal.NewFromInt(1), pm, at)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, o))
		return o
	}
	// Decoys: wrong marker, two items, yesterday, different quantity.
	create([]order.LineItem{{ProductID: productID, Quantity: 2}}, "COD", dayStart.Add(time.Hour))
	create([]order.LineItem{{ProductID: productID, Quantity: 2}, {ProductID: other, Quantity: 1}}, subscription.PaymentMethod, dayStart.Add(time.Hour))
	create([]order.LineItem{{ProductID: productID, Quantity: 2}}, subscription.PaymentMethod, dayStart.Add(-time.Minute))
	create([]order.LineItem{{ProductID: productID, Quantity: 3}}, subscription.PaymentMethod, dayStart.Add(time.Hour))

	lookup := shared.SubscriptionOrderLookup{
		UserID:        userID,
		ProductID:     productID,
		Quantity:      2,
		PaymentMethod: subscription.PaymentMethod,
		From:          dayStart,
		To:            dayStart.AddDate(0, 0, 1),
	}
	found, err := repo.FindSubscriptionOrder(ctx, lookup)
	require.NoError(t, err)
	assert.Nil(t, found)

	match := create([]order.LineItem{{ProductID: productID, Quantity: 2}}, subscription.PaymentMethod, dayStart.Add(2*time.Hour))
	found, err = repo.FindSubscriptionOrder(ctx, lookup)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, match.ID(), found.ID())
}

func (s *RepositoryIntegrationSuite) TestCart_SaveAndClear() {
	t := s.T()
	ctx := context.Background()
	a := dbtest.CreateTestProduct(t, s.pool, "A", "4.50", intPtr(10), true)
	b := dbtest.CreateTestProduct(t, s.pool, "B", "1.00", intPtr(10), true)
	repo := repository.NewCartRepository(s.pool)
	userID := uuid.New()
	now := time.Now().UTC()
	prices := map[uuid.UUID]decimal.Decimal{a: decimal.RequireFromString("4.50"), b: decimal.NewFromInt(1)}

	_, err := repo.FindByUserID(ctx, userID)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))

	c := cart.NewCart(userID, now)
	require.NoError(t, c.AddItem(a, 2, prices, now))
	require.NoError(t, c.AddItem(b, 1, prices, now))
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.ID())
	assert.Equal(t, []cart.Item{{ProductID: a, Quantity: 2}, {ProductID: b, Quantity: 1}}, got.Items())
	assert.Equal(t, "10.00", got.Total().StringFixed(2))

	got.Clear(now)
	require.NoError(t, repo.Save(ctx, got))

	cleared, err := repo.FindByUserID(ctx, userID)
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
	assert.True(t, cleared.Total().IsZero())
}

func (s *RepositoryIntegrationSuite) TestSubscription_DueAndMoveNextDelivery() {
	t := s.T()
	ctx := context.Background()
	productID := dbtest.CreateTestProduct(t, s.pool, "Milk", "1.20", intPtr(10), true)
	repo := repository.NewSubscriptionRepository(s.pool)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	due, err := subscription.NewSubscription(uuid.New(), productID, 1, subscription.FrequencyDaily, start, start)
	require.NoError(t, err)
	future, err := subscription.NewSubscription(uuid.New(), productID, 1, subscription.FrequencyMonthly, now, now)
	require.NoError(t, err)
	paused, err := subscription.NewSubscription(uuid.New(), productID, 1, subscription.FrequencyDaily, start, start)
	require.NoError(t, err)
	_, err = paused.ChangeStatus(subscription.StatusPaused, start)
	require.NoError(t, err)

	for _, sub := range []*subscription.Subscription{due, future, paused} {
		require.NoError(t, repo.Create(ctx, sub))
	}

	found, err := repo.FindDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID(), found[0].ID())

	next := due.Frequency().AdvancePastNow(found[0].NextDelivery(), now)
	ok, err := repo.MoveNextDelivery(ctx, due.ID(), found[0].NextDelivery(), next, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MoveNextDelivery(ctx, due.ID(), found[0].NextDelivery(), next, now)
	require.NoError(t, err)
	assert.False(t, ok, "second claim of the same cycle must lose")

	stored, err := repo.FindByID(ctx, due.ID())
	require.NoError(t, err)
	assert.True(t, next.Equal(stored.NextDelivery()))

	require.NoError(t, repo.UpdateStatus(ctx, due.ID(), subscription.StatusCancelled, now))
	found, err = repo.FindDue(ctx, now.AddDate(0, 1, 0))
	require.NoError(t, err)
	for _, sub := range found {
		assert.NotEqual(t, due.ID(), sub.ID())
	}
}
