//go:build unit || e2e

package builder

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	reqdto "github.com/Meet5113/greencart-backend/internal/handler/dto/request"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
)

type SubscriptionBuilder struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Frequency   subscription.Frequency
	StartDate   time.Time
	Status      subscription.Status
	CreatedAt   time.Time
}

func NewSubscriptionBuilder() *SubscriptionBuilder {
	return &SubscriptionBuilder{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		ProductID:   uuid.New(),
		ProductName: "Fresh Milk",
		Quantity:    1,
		Frequency:   subscription.FrequencyWeekly,
		StartDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      subscription.StatusActive,
		CreatedAt:   time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
	}
}

func (b *SubscriptionBuilder) With(mutate func(*SubscriptionBuilder)) *SubscriptionBuilder {
	mutate(b)
	return b
}

func (b *SubscriptionBuilder) BuildDomain() *subscription.Subscription {
	return subscription.ReconstructSubscription(
		b.ID, b.UserID, b.ProductID,
		b.Quantity, b.Frequency,
		b.StartDate, b.Frequency.Step(b.StartDate),
		b.Status,
		b.CreatedAt, b.CreatedAt,
	)
}

func (b *SubscriptionBuilder) BuildView() *queries.SubscriptionView {
	return &queries.SubscriptionView{
		ID:               b.ID,
		UserID:           b.UserID,
		ProductID:        b.ProductID,
		ProductName:      b.ProductName,
		Quantity:         b.Quantity,
		Frequency:        b.Frequency.String(),
		StartDate:        b.StartDate,
		NextDeliveryDate: b.Frequency.Step(b.StartDate),
		Status:           b.Status.String(),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.CreatedAt,
	}
}

func (b *SubscriptionBuilder) BuildCreateRequestDTO() reqdto.CreateSubscriptionRequest {
	return reqdto.CreateSubscriptionRequest{
		Product:   b.ProductID.String(),
		Quantity:  json.Number(strconv.Itoa(b.Quantity)),
		Frequency: b.Frequency.String(),
		StartDate: b.StartDate.Format("2006-01-02"),
	}
}
