package response

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/usecase/commands"
	"github.com/Meet5113/greencart-backend/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SubscriptionResponse struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"userId"`
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName,omitempty"`
	Quantity         int       `json:"quantity"`
	Frequency        string    `json:"frequency"`
	StartDate        time.Time `json:"startDate"`
	NextDeliveryDate time.Time `json:"nextDeliveryDate"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type SubscriptionListResponse struct {
	Subscriptions []*SubscriptionResponse `json:"subscriptions"`
	NextCursor    string                  `json:"nextCursor,omitempty"`
}

func FromSubscription(s *subscription.Subscription) *SubscriptionResponse {
	return &SubscriptionResponse{
		ID:               s.ID(),
		UserID:           s.UserID(),
		ProductID:        s.ProductID(),
		Quantity:         s.Quantity(),
		Frequency:        s.Frequency().String(),
		StartDate:        s.StartDate(),
		NextDeliveryDate: s.NextDelivery(),
		Status:           s.Status().String(),
		CreatedAt:        s.CreatedAt(),
		UpdatedAt:        s.UpdatedAt(),
	}
}

func FromSubscriptionViews(views []*queries.SubscriptionView, next *queries.Cursor) (*SubscriptionListResponse, error) {
	res := &SubscriptionListResponse{Subscriptions: make([]*SubscriptionResponse, 0, len(views))}
	for _, v := range views {
		item := &SubscriptionResponse{}
		if err := copier.Copy(item, v); err != nil {
			return nil, err
		}
		res.Subscriptions = append(res.Subscriptions, item)
	}
	if next != nil {
		res.NextCursor = next.After
	}
	return res, nil
}

type RunSummaryCounts struct {
	TotalDue  int `json:"totalDue"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

type ProcessedItemResponse struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	OrderID        uuid.UUID `json:"orderId"`
}

type SkippedItemResponse struct {
	SubscriptionID uuid.UUID  `json:"subscriptionId"`
	Reason         string     `json:"reason"`
	OrderID        *uuid.UUID `json:"orderId,omitempty"`
}

type FailedItemResponse struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Reason         string    `json:"reason"`
	Critical       bool      `json:"critical,omitempty"`
}

type RunSummaryResponse struct {
	Success   bool                    `json:"success"`
	Summary   RunSummaryCounts        `json:"summary"`
	Processed []ProcessedItemResponse `json:"processed"`
	Skipped   []SkippedItemResponse   `json:"skipped"`
	Failed    []FailedItemResponse    `json:"failed"`
}

func FromRunSummary(s *commands.RunSummary) (*RunSummaryResponse, error) {
	res := &RunSummaryResponse{
		Success: true,
		Summary: RunSummaryCounts{
			TotalDue:  s.TotalDue,
			Processed: len(s.Processed),
			Skipped:   len(s.Skipped),
			Failed:    len(s.Failed),
		},
		Processed: make([]ProcessedItemResponse, 0, len(s.Processed)),
		Skipped:   make([]SkippedItemResponse, 0, len(s.Skipped)),
		Failed:    make([]FailedItemResponse, 0, len(s.Failed)),
	}
	if err := copier.Copy(&res.Processed, s.Processed); err != nil {
		return nil, err
	}
	if err := copier.Copy(&res.Skipped, s.Skipped); err != nil {
		return nil, err
	}
	if err := copier.Copy(&res.Failed, s.Failed); err != nil {
		return nil, err
	}
	return res, nil
}
