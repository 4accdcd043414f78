package request

import (
	"encoding/json"

	"github.com/Meet5113/greencart-backend/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateSubscriptionRequest struct {
	Product   string      `json:"product" binding:"required"`
	Quantity  json.Number `json:"quantity" binding:"required"`
	Frequency string      `json:"frequency" binding:"required"`
	// RFC 3339 timestamp or YYYY-MM-DD
	StartDate string `json:"startDate" binding:"required"`
}

func (r *CreateSubscriptionRequest) ToInput(userID uuid.UUID) commands.CreateSubscriptionInput {
	return commands.CreateSubscriptionInput{
		UserID:    userID,
		ProductID: r.Product,
		Quantity:  r.Quantity.String(),
		Frequency: r.Frequency,
		StartDate: r.StartDate,
	}
}

type UpdateSubscriptionStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
