//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"
	"github.com/Meet5113/greencart-backend/tests/common/memstore"

	"github.com/google/uuid"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memstore.Store
	clock  *clock.MockClock
	orders commands.OrderCommands
	subs   commands.SubscriptionCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithLedger(t, nil)
}

// newFixtureWithLedger lets a test put a wrapper in front of the store's
// stock ledger. A nil ledger uses the store directly.
func newFixtureWithLedger(t *testing.T, wrap func(shared.StockLedger) shared.StockLedger) *fixture {
	t.Helper()
	return buildFixture(wrap, nil)
}

// newFixtureWithSubscriptions puts a wrapper in front of the subscription
// repository the processor uses.
func newFixtureWithSubscriptions(t *testing.T, wrap func(shared.SubscriptionRepository) shared.SubscriptionRepository) *fixture {
	t.Helper()
	return buildFixture(nil, wrap)
}

func buildFixture(
	wrapLedger func(shared.StockLedger) shared.StockLedger,
	wrapSubs func(shared.SubscriptionRepository) shared.SubscriptionRepository,
) *fixture {
	store := memstore.New()
	clk := clock.NewMockClock(baseTime)
	logger := slog.New(slog.DiscardHandler)

	var ledger shared.StockLedger = store
	if wrapLedger != nil {
		ledger = wrapLedger(store)
	}
	var subs shared.SubscriptionRepository = store.SubscriptionRepo()
	if wrapSubs != nil {
		subs = wrapSubs(subs)
	}

	f := commands.NewFulfillment(store, ledger, store.OrderRepo(), store, clk, logger)
	return &fixture{
		store:  store,
		clock:  clk,
		orders: commands.NewOrderUseCase(f, store.OrderRepo(), store.CartRepo(), store, store, clk, logger, "COD"),
		subs: commands.NewSubscriptionUseCase(
			f, store, store.OrderRepo(), subs, store, store, clk, logger, time.UTC,
		),
	}
}

func intPtr(v int) *int { return &v }

// scriptedLedger refuses reservations for one product and records calls.
type scriptedLedger struct {
	shared.StockLedger
	refuse uuid.UUID

	mu    sync.Mutex
	calls []string
}

func (l *scriptedLedger) TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	l.record("reserve", productID)
	if productID == l.refuse {
		return false, nil
	}
	return l.StockLedger.TryReserve(ctx, productID, quantity)
}

func (l *scriptedLedger) Release(ctx context.Context, productID uuid.UUID, quantity int) error {
	l.record("release", productID)
	return l.StockLedger.Release(ctx, productID, quantity)
}

func (l *scriptedLedger) record(op string, productID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, op+":"+productID.String())
}

// hookedSubscriptions runs onMove before every MoveNextDelivery and returns
// its error instead of delegating when it is non-nil.
type hookedSubscriptions struct {
	shared.SubscriptionRepository
	onMove func(call int) (bool, error)

	mu    sync.Mutex
	calls int
}

func (r *hookedSubscriptions) MoveNextDelivery(ctx context.Context, id uuid.UUID, from, to, at time.Time) (bool, error) {
	r.mu.Lock()
	r.calls++
	call := r.calls
	r.mu.Unlock()

	if r.onMove != nil {
		if ok, err := r.onMove(call); err != nil || !ok {
			return ok, err
		}
	}
	return r.SubscriptionRepository.MoveNextDelivery(ctx, id, from, to, at)
}
