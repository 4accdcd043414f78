package commands

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Meet5113/greencart-backend/internal/domain/cart"
	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type OrderCommands interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, items []order.RawLineItem, paymentMethod string) (*order.Order, error)
	Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*order.Order, error)
	TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*order.Order, error)
}

type orderUseCaseImpl struct {
	fulfillment          *Fulfillment
	orders               shared.OrderRepository
	carts                shared.CartRepository
	uow                  shared.UnitOfWork
	audit                shared.AuditSink
	clock                clock.Clock
	logger               *slog.Logger
	defaultPaymentMethod string
}

func NewOrderUseCase(
	fulfillment *Fulfillment,
	orders shared.OrderRepository,
	carts shared.CartRepository,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	clk clock.Clock,
	logger *slog.Logger,
	defaultPaymentMethod string,
) OrderCommands {
	return &orderUseCaseImpl{
		fulfillment:          fulfillment,
		orders:               orders,
		carts:                carts,
		uow:                  uow,
		audit:                audit,
		clock:                clk,
		logger:               logger,
		defaultPaymentMethod: defaultPaymentMethod,
	}
}

func (uc *orderUseCaseImpl) PlaceOrder(ctx context.Context, userID uuid.UUID, items []order.RawLineItem, paymentMethod string) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderCommands.PlaceOrder", trace.WithAttributes(
		attribute.Int("order.line_items", len(items)),
	))
	defer span.End()

	agg, err := order.Aggregate(items)
	if err != nil {
		return nil, err
	}

	o, err := uc.fulfillment.Fulfil(ctx, userID, agg, uc.paymentMethod(paymentMethod))
	if err != nil {
		return nil, err
	}

	uc.recordPlaced(ctx, o, "direct")
	return o, nil
}

func (uc *orderUseCaseImpl) Checkout(ctx context.Context, userID uuid.UUID, paymentMethod string) (*order.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderCommands.Checkout")
	defer span.End()

	c, err := uc.carts.FindByUserID(ctx, userID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrEmptyCart
		}
		return nil, errs.Wrap(err, "failed to load cart")
	}
	if c.IsEmpty() {
		return nil, errs.ErrEmptyCart
	}

	agg, err := order.Aggregate(rawItemsFromCart(c))
	if err != nil {
		return nil, err
	}

	o, err := uc.fulfillment.Fulfil(ctx, userID, agg, uc.paymentMethod(paymentMethod))
	if err != nil {
		return nil, err
	}

	// The order stands once stock is reserved; a cart that cannot be cleared
	// only leaves stale items behind.
	c.Clear(uc.clock.Now())
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Carts().Save(ctx, c)
	})
	if err != nil {
		uc.logger.ErrorContext(ctx, "order placed but cart not cleared",
			"order_id", o.ID().String(),
			"cart_id", c.ID().String(),
			"error", err.Error(),
		)
	}

	uc.recordPlaced(ctx, o, "checkout")
	return o, nil
}

func (uc *orderUseCaseImpl) TransitionOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus string) (*order.Order, error) {
	next, err := order.ParseStatus(newStatus)
	if err != nil {
		return nil, err
	}

	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Wrap(err, "failed to load order")
	}

	from := o.Status()
	changed, err := o.TransitionTo(next, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}

	ok, err := uc.orders.UpdateStatus(ctx, orderID, from, next, o.UpdatedAt())
	if err != nil {
		return nil, errs.Wrap(err, "failed to update order status")
	}
	if !ok {
		// Someone else moved the order first.
		return nil, errs.Mark(errs.Newf("order %s is no longer %s", orderID, from), errs.ErrInvalidTransition)
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		Action:     shared.AuditActionOrderStatusChange,
		EntityType: shared.AuditEntityOrder,
		EntityID:   &orderID,
		ActorID:    shared.ActorFromContext(ctx),
		Metadata: map[string]any{
			"from": from.String(),
			"to":   next.String(),
		},
		OccurredAt: o.UpdatedAt(),
	})
	return o, nil
}

func (uc *orderUseCaseImpl) paymentMethod(requested string) string {
	if pm := strings.TrimSpace(requested); pm != "" {
		return pm
	}
	return uc.defaultPaymentMethod
}

func (uc *orderUseCaseImpl) recordPlaced(ctx context.Context, o *order.Order, source string) {
	id := o.ID()
	uc.audit.Record(ctx, shared.AuditEvent{
		Action:     shared.AuditActionOrderPlaced,
		EntityType: shared.AuditEntityOrder,
		EntityID:   &id,
		ActorID:    shared.ActorFromContext(ctx),
		Metadata: map[string]any{
			"source":         source,
			"total":          o.Total().StringFixed(2),
			"items":          len(o.Items()),
			"payment_method": o.PaymentMethod(),
		},
		OccurredAt: o.CreatedAt(),
	})
}

func rawItemsFromCart(c *cart.Cart) []order.RawLineItem {
	items := c.Items()
	raw := make([]order.RawLineItem, len(items))
	for i, it := range items {
		raw[i] = order.RawLineItem{
			ProductID: it.ProductID.String(),
			Quantity:  strconv.Itoa(it.Quantity),
		}
	}
	return raw
}
