package converter

import (
	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRow struct {
	ID       uuid.UUID
	Name     string
	Price    pgtype.Numeric
	Stock    pgtype.Int4
	IsActive bool
}

func ProductFromRow(r ProductRow) (*product.Product, error) {
	price, err := pgconv.DecimalFromNumeric(r.Price)
	if err != nil {
		return nil, errs.Wrapf(err, "product %s price", r.ID)
	}
	return product.ReconstructProduct(r.ID, r.Name, price, pgconv.IntPtrFromPgtype(r.Stock), r.IsActive), nil
}

type OrderRow struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TotalAmount   pgtype.Numeric
	PaymentMethod string
	Status        string
	IsPaid        bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

func OrderFromRow(r OrderRow, items []order.LineItem) (*order.Order, error) {
	total, err := pgconv.DecimalFromNumeric(r.TotalAmount)
	if err != nil {
		return nil, errs.Wrapf(err, "order %s total", r.ID)
	}
	return order.ReconstructOrder(
		r.ID, r.UserID,
		items,
		total,
		r.PaymentMethod,
		order.Status(r.Status),
		r.IsPaid,
		pgconv.TimeFromPgtype(r.CreatedAt), pgconv.TimeFromPgtype(r.UpdatedAt),
	), nil
}

type SubscriptionRow struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	ProductID        uuid.UUID
	Quantity         int32
	Frequency        string
	StartDate        pgtype.Timestamptz
	NextDeliveryDate pgtype.Timestamptz
	Status           string
	CreatedAt        pgtype.Timestamptz
	UpdatedAt        pgtype.Timestamptz
}

func SubscriptionFromRow(r SubscriptionRow) *subscription.Subscription {
	return subscription.ReconstructSubscription(
		r.ID, r.UserID, r.ProductID,
		int(r.Quantity),
		subscription.Frequency(r.Frequency),
		pgconv.TimeFromPgtype(r.StartDate), pgconv.TimeFromPgtype(r.NextDeliveryDate),
		subscription.Status(r.Status),
		pgconv.TimeFromPgtype(r.CreatedAt), pgconv.TimeFromPgtype(r.UpdatedAt),
	)
}
