//go:build unit

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestCreateSubscription(t *testing.T) {
	t.Run("success: first delivery is one step after start", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		// No stock check at creation time.
		productID := f.store.AddProduct("Eggs", "3.00", intPtr(0), true)

		sub, err := f.subs.CreateSubscription(context.Background(), commands.CreateSubscriptionInput{
			UserID:    userID,
			ProductID: productID.String(),
			Quantity:  "2",
			Frequency: "monthly",
			StartDate: "2025-01-31",
		})
		require.NoError(t, err)

		assert.Equal(t, subscription.StatusActive, sub.Status())
		assert.Equal(t, 2, sub.Quantity())
		assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), sub.NextDelivery())

		stored, err := f.store.SubscriptionRepo().FindByID(context.Background(), sub.ID())
		require.NoError(t, err)
		assert.Equal(t, sub.NextDelivery(), stored.NextDelivery())

		events := f.store.Events()
		require.Len(t, events, 1)
		assert.Equal(t, shared.AuditActionSubscriptionCreated, events[0].Action)
	})

	t.Run("accepts RFC3339 start dates", func(t *testing.T) {
		f := newFixture(t)
		productID := f.store.AddProduct("Eggs", "3.00", intPtr(5), true)

		sub, err := f.subs.CreateSubscription(context.Background(), commands.CreateSubscriptionInput{
			UserID:    uuid.New(),
			ProductID: productID.String(),
			Quantity:  "1",
			Frequency: "weekly",
			StartDate: "2025-03-01T08:30:00Z",
		})
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 8, 8, 30, 0, 0, time.UTC), sub.NextDelivery())
	})

	f := newFixture(t)
	active := f.store.AddProduct("Eggs", "3.00", intPtr(5), true)
	inactive := f.store.AddProduct("Duck eggs", "6.00", intPtr(5), false)

	valid := func() commands.CreateSubscriptionInput {
		return commands.CreateSubscriptionInput{
			UserID:    uuid.New(),
			ProductID: active.String(),
			Quantity:  "1",
			Frequency: "daily",
			StartDate: "2025-03-01",
		}
	}

	tests := []struct {
		name   string
		mutate func(in *commands.CreateSubscriptionInput)
		want   error
	}{
		{name: "zero quantity", mutate: func(in *commands.CreateSubscriptionInput) { in.Quantity = "0" }, want: errs.ErrInvalidInput},
		{name: "non numeric quantity", mutate: func(in *commands.CreateSubscriptionInput) { in.Quantity = "two" }, want: errs.ErrInvalidInput},
		{name: "unknown frequency", mutate: func(in *commands.CreateSubscriptionInput) { in.Frequency = "hourly" }, want: errs.ErrInvalidInput},
		{name: "bad start date", mutate: func(in *commands.CreateSubscriptionInput) { in.StartDate = "03/01/2025" }, want: errs.ErrInvalidInput},
		{name: "malformed product id", mutate: func(in *commands.CreateSubscriptionInput) { in.ProductID = "abc" }, want: errs.ErrInvalidInput},
		{name: "unknown product", mutate: func(in *commands.CreateSubscriptionInput) { in.ProductID = uuid.NewString() }, want: errs.ErrProductNotFound},
		{name: "inactive product", mutate: func(in *commands.CreateSubscriptionInput) { in.ProductID = inactive.String() }, want: errs.ErrProductInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)
			_, err := f.subs.CreateSubscription(context.Background(), in)
			require.Error(t, err)
			assert.True(t, errs.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestUpdateSubscriptionStatus(t *testing.T) {
	setup := func(t *testing.T) (*fixture, uuid.UUID, uuid.UUID) {
		t.Helper()
		f := newFixture(t)
		userID := uuid.New()
		productID := f.store.AddProduct("Eggs", "3.00", intPtr(5), true)
		sub, err := f.subs.CreateSubscription(context.Background(), commands.CreateSubscriptionInput{
			UserID: userID, ProductID: productID.String(), Quantity: "1", Frequency: "daily", StartDate: "2025-03-01",
		})
		require.NoError(t, err)
		return f, userID, sub.ID()
	}

	t.Run("active to paused to cancelled", func(t *testing.T) {
		f, userID, subID := setup(t)

		sub, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "paused")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPaused, sub.Status())

		sub, err = f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "cancelled")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCancelled, sub.Status())

		stored, err := f.store.SubscriptionRepo().FindByID(context.Background(), subID)
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusCancelled, stored.Status())
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f, userID, subID := setup(t)
		_, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "paused")
		require.NoError(t, err)
		before := len(f.store.Events())

		sub, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "paused")
		require.NoError(t, err)
		assert.Equal(t, subscription.StatusPaused, sub.Status())
		assert.Len(t, f.store.Events(), before)
	})

	t.Run("error: cancelled is terminal", func(t *testing.T) {
		f, userID, subID := setup(t)
		_, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "cancelled")
		require.NoError(t, err)

		_, err = f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, "paused")
		assert.True(t, errs.Is(err, errs.ErrSubscriptionCancelled))
	})

	t.Run("error: other user's subscription", func(t *testing.T) {
		f, _, subID := setup(t)
		_, err := f.subs.UpdateSubscriptionStatus(context.Background(), uuid.New(), subID, "paused")
		assert.ErrorIs(t, err, errs.ErrSubscriptionNotFound)
	})

	t.Run("error: unknown subscription", func(t *testing.T) {
		f, userID, _ := setup(t)
		_, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, uuid.New(), "paused")
		assert.ErrorIs(t, err, errs.ErrSubscriptionNotFound)
	})

	t.Run("error: status not requestable", func(t *testing.T) {
		f, userID, subID := setup(t)
		for _, s := range []string{"active", "resumed", ""} {
			_, err := f.subs.UpdateSubscriptionStatus(context.Background(), userID, subID, s)
			assert.True(t, errs.Is(err, errs.ErrInvalidInput), "status %q", s)
		}
	})
}

// dueSubscription stores an active subscription whose next delivery is next.
func dueSubscription(t *testing.T, f *fixture, productID uuid.UUID, qty int, freq subscription.Frequency, next time.Time) *subscription.Subscription {
	t.Helper()
	sub := subscription.ReconstructSubscription(
		uuid.New(), uuid.New(), productID,
		qty,
		freq,
		next.AddDate(0, -1, 0), next,
		subscription.StatusActive,
		next.AddDate(0, -1, 0), next.AddDate(0, -1, 0),
	)
	f.store.PutSubscription(sub)
	return sub
}

func TestProcessDueSubscriptions_CreatesOrderAndAdvancesCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := baseTime
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	// Three days behind: D, D+1, D+2, D+3 are all at or before now.
	sub := dueSubscription(t, f, productID, 3, subscription.FrequencyDaily, now.AddDate(0, 0, -3))

	summary, err := f.subs.ProcessDueSubscriptions(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalDue)
	require.Len(t, summary.Processed, 1)
	assert.Empty(t, summary.Skipped)
	assert.Empty(t, summary.Failed)

	orders := f.store.Orders()
	require.Len(t, orders, 1)
	o := orders[0]
	assert.Equal(t, summary.Processed[0].OrderID, o.ID())
	assert.Equal(t, subscription.PaymentMethod, o.PaymentMethod())
	assert.Equal(t, "3.60", o.Total().StringFixed(2))
	assert.Equal(t, order.StatusPending, o.Status())
	assert.True(t, o.HasSingleItem(productID, 3))

	stock, _ := f.store.Stock(productID)
	assert.Equal(t, 7, stock)

	stored, err := f.store.SubscriptionRepo().FindByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 1), stored.NextDelivery())

	var run *shared.AuditEvent
	for _, ev := range f.store.Events() {
		if ev.Action == shared.AuditActionSubscriptionRun {
			run = &ev
		}
	}
	require.NotNil(t, run)
	assert.Equal(t, 1, run.Metadata["processed"])
}

func TestProcessDueSubscriptions_FailuresLeaveSubscriptionDue(t *testing.T) {
	tests := []struct {
		name   string
		seed   func(f *fixture) uuid.UUID
		reason string
	}{
		{
			name:   "product missing",
			seed:   func(*fixture) uuid.UUID { return uuid.New() },
			reason: commands.ReasonProductNotFound,
		},
		{
			name:   "product inactive",
			seed:   func(f *fixture) uuid.UUID { return f.store.AddProduct("Milk", "1.20", intPtr(10), false) },
			reason: commands.ReasonProductInactive,
		},
		{
			name:   "stock not configured",
			seed:   func(f *fixture) uuid.UUID { return f.store.AddProduct("Milk", "1.20", nil, true) },
			reason: commands.ReasonStockNotConfigured,
		},
		{
			name:   "insufficient stock",
			seed:   func(f *fixture) uuid.UUID { return f.store.AddProduct("Milk", "1.20", intPtr(1), true) },
			reason: commands.ReasonInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			next := baseTime.Add(-time.Hour)
			sub := dueSubscription(t, f, tt.seed(f), 2, subscription.FrequencyWeekly, next)

			summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
			require.NoError(t, err)

			require.Len(t, summary.Failed, 1)
			assert.Equal(t, commands.FailedOutcome{SubscriptionID: sub.ID(), Reason: tt.reason}, summary.Failed[0])
			assert.Empty(t, summary.Processed)
			assert.Empty(t, f.store.Orders())

			stored, err := f.store.SubscriptionRepo().FindByID(context.Background(), sub.ID())
			require.NoError(t, err)
			assert.Equal(t, next, stored.NextDelivery())
		})
	}
}

func TestProcessDueSubscriptions_IsolatesFailures(t *testing.T) {
	f := newFixture(t)
	good := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	dueSubscription(t, f, uuid.New(), 1, subscription.FrequencyDaily, baseTime.Add(-2*time.Hour))
	dueSubscription(t, f, good, 1, subscription.FrequencyDaily, baseTime.Add(-time.Hour))

	summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalDue)
	assert.Len(t, summary.Processed, 1)
	assert.Len(t, summary.Failed, 1)
}

func TestProcessDueSubscriptions_SameDayRunIsSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	next := baseTime.Add(-time.Hour)
	sub := dueSubscription(t, f, productID, 1, subscription.FrequencyDaily, next)

	first, err := f.subs.ProcessDueSubscriptions(ctx, baseTime)
	require.NoError(t, err)
	require.Len(t, first.Processed, 1)

	// A second scheduler that read the subscription before the first run advanced it.
	f.store.SetNextDelivery(sub.ID(), next)

	second, err := f.subs.ProcessDueSubscriptions(ctx, baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, second.Processed)
	require.Len(t, second.Skipped, 1)
	assert.Equal(t, commands.ReasonAlreadyOrderedToday, second.Skipped[0].Reason)
	require.NotNil(t, second.Skipped[0].OrderID)
	assert.Equal(t, first.Processed[0].OrderID, *second.Skipped[0].OrderID)

	assert.Len(t, f.store.Orders(), 1)
	stock, _ := f.store.Stock(productID)
	assert.Equal(t, 9, stock)

	stored, err := f.store.SubscriptionRepo().FindByID(ctx, sub.ID())
	require.NoError(t, err)
	assert.True(t, stored.NextDelivery().After(baseTime))
}

func TestProcessDueSubscriptions_ConcurrentRunsCreateOneOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	dueSubscription(t, f, productID, 1, subscription.FrequencyDaily, baseTime.Add(-time.Hour))

	const runs = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)
	for range runs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			processed += len(summary.Processed)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, processed)
	assert.Len(t, f.store.Orders(), 1)
	stock, _ := f.store.Stock(productID)
	assert.Equal(t, 9, stock)
}

func TestProcessDueSubscriptions_OrderCreationFailure(t *testing.T) {
	t.Run("releases stock and keeps subscription due", func(t *testing.T) {
		f := newFixture(t)
		productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
		next := baseTime.Add(-time.Hour)
		sub := dueSubscription(t, f, productID, 2, subscription.FrequencyDaily, next)
		f.store.CreateOrderErr = errs.New("connection reset")

		summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
		require.NoError(t, err)

		require.Len(t, summary.Failed, 1)
		assert.False(t, summary.Failed[0].Critical)
		stock, _ := f.store.Stock(productID)
		assert.Equal(t, 10, stock)

		stored, err := f.store.SubscriptionRepo().FindByID(context.Background(), sub.ID())
		require.NoError(t, err)
		assert.Equal(t, next, stored.NextDelivery())
	})

	t.Run("release failure is critical", func(t *testing.T) {
		f := newFixture(t)
		productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
		dueSubscription(t, f, productID, 2, subscription.FrequencyDaily, baseTime.Add(-time.Hour))
		f.store.CreateOrderErr = errs.New("connection reset")
		f.store.ReleaseErr = func(uuid.UUID) error { return errs.New("connection reset") }

		summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
		require.NoError(t, err)

		require.Len(t, summary.Failed, 1)
		assert.True(t, summary.Failed[0].Critical)
		assert.Empty(t, f.store.Orders())
	})
}

func TestProcessDueSubscriptions_UnrestoredCycleIsCritical(t *testing.T) {
	f := newFixtureWithSubscriptions(t, func(r shared.SubscriptionRepository) shared.SubscriptionRepository {
		return &hookedSubscriptions{
			SubscriptionRepository: r,
			onMove: func(call int) (bool, error) {
				// call 1 claims the cycle, call 2 tries to hand it back
				if call == 2 {
					return false, errs.New("connection reset")
				}
				return true, nil
			},
		}
	})
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	next := baseTime.Add(-time.Hour)
	sub := dueSubscription(t, f, productID, 2, subscription.FrequencyDaily, next)
	f.store.CreateOrderErr = errs.New("connection reset")

	summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
	require.NoError(t, err)

	require.Len(t, summary.Failed, 1)
	assert.Equal(t, commands.FailedOutcome{
		SubscriptionID: sub.ID(),
		Reason:         commands.ReasonDeliveryNotRestored,
		Critical:       true,
	}, summary.Failed[0])
	assert.Empty(t, f.store.Orders())
	stock, _ := f.store.Stock(productID)
	assert.Equal(t, 10, stock, "reservation was still released")
}

func TestProcessDueSubscriptions_LostClaimReferencesWinningOrder(t *testing.T) {
	var (
		f   *fixture
		sub *subscription.Subscription
	)
	f = newFixtureWithSubscriptions(t, func(r shared.SubscriptionRepository) shared.SubscriptionRepository {
		return &hookedSubscriptions{
			SubscriptionRepository: r,
			onMove: func(int) (bool, error) {
				// another run claims the cycle and writes its order first
				items := []order.LineItem{{ProductID: sub.ProductID(), Quantity: sub.Quantity()}}
				o, err := order.NewOrder(sub.UserID(), items, decimal.RequireFromString("1.20"), subscription.PaymentMethod, baseTime)
				if err != nil {
					return false, err
				}
				return false, f.store.OrderRepo().Create(context.Background(), o)
			},
		}
	})
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	sub = dueSubscription(t, f, productID, 1, subscription.FrequencyDaily, baseTime.Add(-time.Hour))

	summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
	require.NoError(t, err)

	assert.Empty(t, summary.Processed)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, commands.ReasonClaimedElsewhere, summary.Skipped[0].Reason)
	orders := f.store.Orders()
	require.Len(t, orders, 1)
	require.NotNil(t, summary.Skipped[0].OrderID)
	assert.Equal(t, orders[0].ID(), *summary.Skipped[0].OrderID)
	stock, _ := f.store.Stock(productID)
	assert.Equal(t, 10, stock, "the losing run reserves nothing")
}

func TestProcessDueSubscriptions_IgnoresInactiveAndFuture(t *testing.T) {
	f := newFixture(t)
	productID := f.store.AddProduct("Milk", "1.20", intPtr(10), true)
	dueSubscription(t, f, productID, 1, subscription.FrequencyDaily, baseTime.Add(time.Hour))
	paused := subscription.ReconstructSubscription(
		uuid.New(), uuid.New(), productID, 1, subscription.FrequencyDaily,
		baseTime.AddDate(0, 0, -5), baseTime.AddDate(0, 0, -1),
		subscription.StatusPaused,
		baseTime.AddDate(0, 0, -5), baseTime.AddDate(0, 0, -5),
	)
	f.store.PutSubscription(paused)

	summary, err := f.subs.ProcessDueSubscriptions(context.Background(), baseTime)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalDue)
	assert.Empty(t, f.store.Orders())
}
