package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	releaseAttempts = 3
	releaseBackoff  = 50 * time.Millisecond
)

var tracer = otel.Tracer("github.com/Meet5113/greencart-backend/internal/usecase/commands")

// Fulfillment turns validated requests into persisted orders without ever
// overselling. There is no transaction spanning several products: each
// reservation is a conditional single-row update, and a failure part way
// through is undone by releasing what was already taken.
type Fulfillment struct {
	products shared.ProductRepository
	ledger   shared.StockLedger
	orders   shared.OrderRepository
	uow      shared.UnitOfWork
	clock    clock.Clock
	logger   *slog.Logger
}

func NewFulfillment(
	products shared.ProductRepository,
	ledger shared.StockLedger,
	orders shared.OrderRepository,
	uow shared.UnitOfWork,
	clock clock.Clock,
	logger *slog.Logger,
) *Fulfillment {
	return &Fulfillment{
		products: products,
		ledger:   ledger,
		orders:   orders,
		uow:      uow,
		clock:    clock,
		logger:   logger,
	}
}

// Fulfil assembles a pending order for agg and reserves stock for every
// product in it, or for none.
func (f *Fulfillment) Fulfil(ctx context.Context, userID uuid.UUID, agg order.Aggregation, paymentMethod string) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "Fulfillment.Fulfil", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("order.products", len(agg.Quantities)),
	))
	defer span.End()

	o, err := f.assemble(ctx, userID, agg, paymentMethod)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", o.ID().String()))

	if err := f.reserve(ctx, o.ID(), agg.Quantities); err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return o, nil
}

func (f *Fulfillment) assemble(ctx context.Context, userID uuid.UUID, agg order.Aggregation, paymentMethod string) (*order.Order, error) {
	products, err := f.products.FindByIDs(ctx, agg.ProductIDs())
	if err != nil {
		return nil, errs.Wrap(err, "failed to load products")
	}

	byID := make(map[uuid.UUID]*product.Product, len(products))
	for _, p := range products {
		byID[p.ID()] = p
	}
	for _, q := range agg.Quantities {
		if _, ok := byID[q.ProductID]; !ok {
			return nil, errs.Mark(errs.New("one or more products not found"), errs.ErrProductNotFound)
		}
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(byID))
	for _, q := range agg.Quantities {
		p := byID[q.ProductID]
		if err := p.CheckAvailable(q.Quantity); err != nil {
			return nil, err
		}
		prices[p.ID()] = p.Price()
	}

	o, err := order.NewOrder(userID, agg.Items, agg.Total(prices), paymentMethod, f.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidLineItem)
	}

	err = f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Orders().Create(ctx, o)
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to persist order")
	}
	return o, nil
}

// reserve takes stock product by product in first-appearance order. On the
// first refusal it releases everything already taken and deletes the order.
func (f *Fulfillment) reserve(ctx context.Context, orderID uuid.UUID, quantities []order.ProductQuantity) error {
	ctx, span := tracer.Start(ctx, "Fulfillment.reserve")
	defer span.End()

	committed := make([]order.ProductQuantity, 0, len(quantities))
	for _, q := range quantities {
		ok, err := f.ledger.TryReserve(ctx, q.ProductID, q.Quantity)
		if err == nil && ok {
			committed = append(committed, q)
			continue
		}

		failure := errs.Mark(errs.New("insufficient stock for one or more products"), errs.ErrInsufficientStock)
		if err != nil {
			failure = errs.Wrapf(err, "failed to reserve product %s", q.ProductID)
		}

		f.logger.WarnContext(ctx, "reservation refused, compensating",
			"order_id", orderID.String(),
			"product_id", q.ProductID.String(),
			"quantity", q.Quantity,
			"committed", len(committed),
		)
		if cerr := f.compensate(ctx, orderID, committed); cerr != nil {
			return cerr
		}
		return failure
	}
	return nil
}

// compensate runs to completion even if the caller has gone away.
func (f *Fulfillment) compensate(ctx context.Context, orderID uuid.UUID, committed []order.ProductQuantity) error {
	ctx, span := tracer.Start(context.WithoutCancel(ctx), "Fulfillment.compensate", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.Int("releases", len(committed)),
	))
	defer span.End()

	var failures []error
	for _, c := range committed {
		if err := f.release(ctx, c.ProductID, c.Quantity); err != nil {
			failures = append(failures, err)
		}
	}
	if err := f.orders.Delete(ctx, orderID); err != nil {
		failures = append(failures, errs.Wrapf(err, "failed to delete order %s", orderID))
	}
	if len(failures) == 0 {
		return nil
	}

	err := errs.Mark(errs.Join(failures...), errs.ErrCompensationFailed)
	recordSpanError(span, err)
	f.logger.ErrorContext(ctx, "stock compensation failed",
		"order_id", orderID.String(),
		"severity", "critical",
		"alert", true,
		"error", err.Error(),
	)
	return err
}

// FulfilSingle places a one-item order by reserving first and creating the
// order second. If the order cannot be written the reservation is released.
func (f *Fulfillment) FulfilSingle(ctx context.Context, userID uuid.UUID, p *product.Product, quantity int, paymentMethod string) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "Fulfillment.FulfilSingle", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("product.id", p.ID().String()),
		attribute.Int("quantity", quantity),
	))
	defer span.End()

	ok, err := f.ledger.TryReserve(ctx, p.ID(), quantity)
	if err != nil {
		recordSpanError(span, err)
		return nil, errs.Wrapf(err, "failed to reserve product %s", p.ID())
	}
	if !ok {
		return nil, errs.Mark(errs.New("insufficient stock"), errs.ErrInsufficientStock)
	}

	items := []order.LineItem{{ProductID: p.ID(), Quantity: quantity}}
	o, err := order.NewOrder(userID, items, p.LineTotal(quantity), paymentMethod, f.clock.Now())
	if err == nil {
		err = f.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			return tx.Orders().Create(ctx, o)
		})
	}
	if err != nil {
		recordSpanError(span, err)
		if rerr := f.release(context.WithoutCancel(ctx), p.ID(), quantity); rerr != nil {
			cerr := errs.Mark(errs.Join(err, rerr), errs.ErrCompensationFailed)
			f.logger.ErrorContext(ctx, "stock compensation failed",
				"product_id", p.ID().String(),
				"quantity", quantity,
				"severity", "critical",
				"alert", true,
				"error", cerr.Error(),
			)
			return nil, cerr
		}
		return nil, errs.Wrap(err, "failed to create order")
	}
	return o, nil
}

func (f *Fulfillment) release(ctx context.Context, productID uuid.UUID, quantity int) error {
	var err error
	for attempt := range releaseAttempts {
		if err = f.ledger.Release(ctx, productID, quantity); err == nil {
			return nil
		}
		if attempt < releaseAttempts-1 {
			time.Sleep(releaseBackoff << attempt)
		}
	}
	return errs.Wrapf(err, "failed to release %d of product %s", quantity, productID)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
