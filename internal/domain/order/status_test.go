//go:build unit

package order_test

import (
	"testing"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		uuid.New(),
		[]order.LineItem{{ProductID: uuid.New(), Quantity: 1}},
		decimal.RequireFromString("10.00"),
		"COD",
		time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return o
}

func withStatus(t *testing.T, s order.Status) *order.Order {
	t.Helper()
	o := newPendingOrder(t)
	return order.ReconstructOrder(o.ID(), o.UserID(), o.Items(), o.Total(), o.PaymentMethod(), s, false, o.CreatedAt(), o.UpdatedAt())
}

func TestNewOrder(t *testing.T) {
	o := newPendingOrder(t)
	assert.Equal(t, order.StatusPending, o.Status())
	assert.False(t, o.Paid())
	assert.NotEqual(t, uuid.Nil, o.ID())

	_, err := order.NewOrder(uuid.New(), nil, decimal.Zero, "COD", time.Now())
	assert.ErrorIs(t, err, order.ErrNoLineItems)
}

func TestOrder_TransitionTo(t *testing.T) {
	all := []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusShipped, order.StatusDelivered, order.StatusCancelled,
	}
	allowed := map[order.Status]map[order.Status]bool{
		order.StatusPending:   {order.StatusConfirmed: true, order.StatusCancelled: true},
		order.StatusConfirmed: {order.StatusShipped: true, order.StatusCancelled: true},
		order.StatusShipped:   {order.StatusDelivered: true},
		order.StatusDelivered: {},
		order.StatusCancelled: {},
	}
	now := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	for _, from := range all {
		for _, to := range all {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				o := withStatus(t, from)
				changed, err := o.TransitionTo(to, now)

				switch {
				case from == to:
					require.NoError(t, err)
					assert.False(t, changed)
					assert.Equal(t, from, o.Status())
				case allowed[from][to]:
					require.NoError(t, err)
					assert.True(t, changed)
					assert.Equal(t, to, o.Status())
					assert.Equal(t, now, o.UpdatedAt())
				default:
					require.Error(t, err)
					assert.True(t, errs.Is(err, errs.ErrInvalidTransition))
					assert.Contains(t, err.Error(), string(from)+" to "+string(to))
					assert.Equal(t, from, o.Status())
				}
			})
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusShipped.IsTerminal())
}

func TestParseStatus(t *testing.T) {
	s, err := order.ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, s)

	_, err = order.ParseStatus("lost")
	assert.True(t, errs.Is(err, errs.ErrInvalidInput))
}
