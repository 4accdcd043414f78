//go:build unit

package repository_test

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func decimalTen() decimal.Decimal { return decimal.NewFromInt(10) }

func sharedLookup() shared.SubscriptionOrderLookup {
	now := time.Now()
	return shared.SubscriptionOrderLookup{
		UserID:        uuid.New(),
		ProductID:     uuid.New(),
		Quantity:      1,
		PaymentMethod: subscription.PaymentMethod,
		From:          now.Add(-time.Hour),
		To:            now.Add(time.Hour),
	}
}
