package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Meet5113/greencart-backend/internal/domain/order"
	"github.com/Meet5113/greencart-backend/internal/domain/product"
	"github.com/Meet5113/greencart-backend/internal/domain/subscription"
	"github.com/Meet5113/greencart-backend/internal/infra"
	"github.com/Meet5113/greencart-backend/internal/pkg/clock"
	"github.com/Meet5113/greencart-backend/internal/pkg/errs"
	"github.com/Meet5113/greencart-backend/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	ReasonProductNotFound     = "Product not found"
	ReasonProductInactive     = "Product is not active"
	ReasonStockNotConfigured  = "Product stock is not configured"
	ReasonInsufficientStock   = "Insufficient stock"
	ReasonAlreadyOrderedToday = "Order already created today"
	ReasonClaimedElsewhere    = "Cycle already claimed by a concurrent run"
	ReasonDeliveryNotRestored = "Order failed and next delivery date could not be restored"
)

var startDateLayouts = []string{time.RFC3339, time.DateOnly}

type CreateSubscriptionInput struct {
	UserID    uuid.UUID
	ProductID string
	Quantity  string
	Frequency string
	StartDate string
}

type ProcessedOutcome struct {
	SubscriptionID uuid.UUID
	OrderID        uuid.UUID
}

type SkippedOutcome struct {
	SubscriptionID uuid.UUID
	Reason         string
	// OrderID is the order found for today, when there is one.
	OrderID *uuid.UUID
}

type FailedOutcome struct {
	SubscriptionID uuid.UUID
	Reason         string
	// Critical marks failures that left stock inconsistent and need an operator.
	Critical bool
}

type RunSummary struct {
	TotalDue  int
	Processed []ProcessedOutcome
	Skipped   []SkippedOutcome
	Failed    []FailedOutcome
}

type SubscriptionCommands interface {
	CreateSubscription(ctx context.Context, in CreateSubscriptionInput) (*subscription.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, userID, subscriptionID uuid.UUID, status string) (*subscription.Subscription, error)
	ProcessDueSubscriptions(ctx context.Context, now time.Time) (*RunSummary, error)
}

type subscriptionUseCaseImpl struct {
	fulfillment   *Fulfillment
	products      shared.ProductRepository
	orders        shared.OrderRepository
	subscriptions shared.SubscriptionRepository
	uow           shared.UnitOfWork
	audit         shared.AuditSink
	clock         clock.Clock
	logger        *slog.Logger
	businessLoc   *time.Location
}

func NewSubscriptionUseCase(
	fulfillment *Fulfillment,
	products shared.ProductRepository,
	orders shared.OrderRepository,
	subscriptions shared.SubscriptionRepository,
	uow shared.UnitOfWork,
	audit shared.AuditSink,
	clk clock.Clock,
	logger *slog.Logger,
	businessLoc *time.Location,
) SubscriptionCommands {
	if businessLoc == nil {
		businessLoc = time.UTC
	}
	return &subscriptionUseCaseImpl{
		fulfillment:   fulfillment,
		products:      products,
		orders:        orders,
		subscriptions: subscriptions,
		uow:           uow,
		audit:         audit,
		clock:         clk,
		logger:        logger,
		businessLoc:   businessLoc,
	}
}

func (uc *subscriptionUseCaseImpl) CreateSubscription(ctx context.Context, in CreateSubscriptionInput) (*subscription.Subscription, error) {
	productID, err := order.ParseProductID(in.ProductID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}
	quantity, err := order.ParseQuantity(in.Quantity)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}
	frequency, err := subscription.ParseFrequency(in.Frequency)
	if err != nil {
		return nil, err
	}
	start, err := parseStartDate(in.StartDate)
	if err != nil {
		return nil, err
	}

	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrProductNotFound
		}
		return nil, errs.Wrap(err, "failed to load product")
	}
	if !p.Active() {
		return nil, errs.ErrProductInactive
	}

	now := uc.clock.Now()
	sub, err := subscription.NewSubscription(in.UserID, productID, quantity, frequency, start, now)
	if err != nil {
		return nil, err
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Subscriptions().Create(ctx, sub)
	})
	if err != nil {
		return nil, errs.Wrap(err, "failed to create subscription")
	}

	id := sub.ID()
	uc.audit.Record(ctx, shared.AuditEvent{
		Action:     shared.AuditActionSubscriptionCreated,
		EntityType: shared.AuditEntitySubscription,
		EntityID:   &id,
		ActorID:    &in.UserID,
		Metadata: map[string]any{
			"product_id": productID.String(),
			"quantity":   quantity,
			"frequency":  frequency.String(),
		},
		OccurredAt: now,
	})
	return sub, nil
}

func (uc *subscriptionUseCaseImpl) UpdateSubscriptionStatus(ctx context.Context, userID, subscriptionID uuid.UUID, status string) (*subscription.Subscription, error) {
	next, err := subscription.ParseRequestedStatus(status)
	if err != nil {
		return nil, err
	}

	sub, err := uc.subscriptions.FindByID(ctx, subscriptionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSubscriptionNotFound
		}
		return nil, errs.Wrap(err, "failed to load subscription")
	}
	// Someone else's subscription looks exactly like a missing one.
	if sub.UserID() != userID {
		return nil, errs.ErrSubscriptionNotFound
	}

	from := sub.Status()
	changed, err := sub.ChangeStatus(next, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return sub, nil
	}

	if err := uc.subscriptions.UpdateStatus(ctx, sub.ID(), next, sub.UpdatedAt()); err != nil {
		return nil, errs.Wrap(err, "failed to update subscription status")
	}

	uc.audit.Record(ctx, shared.AuditEvent{
		Action:     shared.AuditActionSubscriptionStatusChange,
		EntityType: shared.AuditEntitySubscription,
		EntityID:   &subscriptionID,
		ActorID:    &userID,
		Metadata: map[string]any{
			"from": from.String(),
			"to":   next.String(),
		},
		OccurredAt: sub.UpdatedAt(),
	})
	return sub, nil
}

// ProcessDueSubscriptions materializes one order per due subscription. A
// failure on one subscription is recorded in the summary and never stops the
// run; only failing to list due subscriptions fails the call.
func (uc *subscriptionUseCaseImpl) ProcessDueSubscriptions(ctx context.Context, now time.Time) (*RunSummary, error) {
	ctx, span := tracer.Start(ctx, "SubscriptionCommands.ProcessDueSubscriptions")
	defer span.End()

	due, err := uc.subscriptions.FindDue(ctx, now)
	if err != nil {
		recordSpanError(span, err)
		return nil, errs.Wrap(err, "failed to list due subscriptions")
	}

	summary := &RunSummary{
		TotalDue:  len(due),
		Processed: []ProcessedOutcome{},
		Skipped:   []SkippedOutcome{},
		Failed:    []FailedOutcome{},
	}
	for _, sub := range due {
		uc.processOne(ctx, sub, now, summary)
	}

	span.SetAttributes(
		attribute.Int("subscriptions.due", summary.TotalDue),
		attribute.Int("subscriptions.processed", len(summary.Processed)),
		attribute.Int("subscriptions.skipped", len(summary.Skipped)),
		attribute.Int("subscriptions.failed", len(summary.Failed)),
	)
	uc.logger.InfoContext(ctx, "subscription run finished",
		"total_due", summary.TotalDue,
		"processed", len(summary.Processed),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed),
	)
	uc.audit.Record(ctx, shared.AuditEvent{
		Action:     shared.AuditActionSubscriptionRun,
		EntityType: shared.AuditEntitySystem,
		ActorID:    shared.ActorFromContext(ctx),
		Metadata: map[string]any{
			"total_due": summary.TotalDue,
			"processed": len(summary.Processed),
			"skipped":   len(summary.Skipped),
			"failed":    len(summary.Failed),
		},
		OccurredAt: now,
	})
	return summary, nil
}

func (uc *subscriptionUseCaseImpl) processOne(ctx context.Context, sub *subscription.Subscription, now time.Time, summary *RunSummary) {
	ctx, span := tracer.Start(ctx, "SubscriptionCommands.processOne", trace.WithAttributes(
		attribute.String("subscription.id", sub.ID().String()),
	))
	defer span.End()

	fail := func(reason string, critical bool, err error) {
		summary.Failed = append(summary.Failed, FailedOutcome{SubscriptionID: sub.ID(), Reason: reason, Critical: critical})
		args := []any{"subscription_id", sub.ID().String(), "reason", reason}
		if err != nil {
			recordSpanError(span, err)
			args = append(args, "error", err.Error())
		}
		if critical {
			args = append(args, "severity", "critical", "alert", true)
			uc.logger.ErrorContext(ctx, "subscription not processed", args...)
			return
		}
		uc.logger.WarnContext(ctx, "subscription not processed", args...)
	}

	p, reason, err := uc.checkProduct(ctx, sub)
	if reason != "" {
		fail(reason, false, err)
		return
	}

	dayStart, dayEnd := clock.DayBounds(now, uc.businessLoc)
	lookup := shared.SubscriptionOrderLookup{
		UserID:        sub.UserID(),
		ProductID:     sub.ProductID(),
		Quantity:      sub.Quantity(),
		PaymentMethod: subscription.PaymentMethod,
		From:          dayStart,
		To:            dayEnd,
	}
	existing, err := uc.orders.FindSubscriptionOrder(ctx, lookup)
	if err != nil {
		fail("Failed to check for existing order", false, err)
		return
	}

	previous := sub.NextDelivery()
	next := sub.Advance(now)

	if existing != nil {
		// A concurrent run may already have moved the date; either way it is past now.
		if _, err := uc.subscriptions.MoveNextDelivery(ctx, sub.ID(), previous, next, now); err != nil {
			fail("Failed to advance next delivery date", false, err)
			return
		}
		orderID := existing.ID()
		summary.Skipped = append(summary.Skipped, SkippedOutcome{
			SubscriptionID: sub.ID(),
			Reason:         ReasonAlreadyOrderedToday,
			OrderID:        &orderID,
		})
		return
	}

	claimed, err := uc.subscriptions.MoveNextDelivery(ctx, sub.ID(), previous, next, now)
	if err != nil {
		fail("Failed to advance next delivery date", false, err)
		return
	}
	if !claimed {
		// The winning run may already have written its order.
		skipped := SkippedOutcome{SubscriptionID: sub.ID(), Reason: ReasonClaimedElsewhere}
		if winner, err := uc.orders.FindSubscriptionOrder(ctx, lookup); err == nil && winner != nil {
			orderID := winner.ID()
			skipped.OrderID = &orderID
		}
		summary.Skipped = append(summary.Skipped, skipped)
		return
	}

	o, err := uc.fulfillment.FulfilSingle(ctx, sub.UserID(), p, sub.Quantity(), subscription.PaymentMethod)
	if err != nil {
		if rerr := uc.unclaim(ctx, sub.ID(), next, previous, now); rerr != nil {
			// The cycle is no longer due and has no order.
			fail(ReasonDeliveryNotRestored, true, errs.Mark(errs.Join(err, rerr), errs.ErrCompensationFailed))
			return
		}
		switch {
		case errs.Is(err, errs.ErrCompensationFailed):
			fail("Stock compensation failed", true, err)
		case errs.Is(err, errs.ErrInsufficientStock):
			fail(ReasonInsufficientStock, false, nil)
		default:
			fail("Failed to create order", false, err)
		}
		return
	}

	summary.Processed = append(summary.Processed, ProcessedOutcome{SubscriptionID: sub.ID(), OrderID: o.ID()})
}

// checkProduct returns a failure reason, empty when the product can serve the
// subscription right now.
func (uc *subscriptionUseCaseImpl) checkProduct(ctx context.Context, sub *subscription.Subscription) (*product.Product, string, error) {
	p, err := uc.products.FindByID(ctx, sub.ProductID())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ReasonProductNotFound, nil
		}
		return nil, "Failed to load product", err
	}

	err = p.CheckAvailable(sub.Quantity())
	switch {
	case err == nil:
		return p, "", nil
	case errs.Is(err, errs.ErrProductInactive):
		return nil, ReasonProductInactive, nil
	case errs.Is(err, errs.ErrStockNotConfigured):
		return nil, ReasonStockNotConfigured, nil
	default:
		return nil, ReasonInsufficientStock, nil
	}
}

// unclaim puts the delivery date back so the subscription stays due.
func (uc *subscriptionUseCaseImpl) unclaim(ctx context.Context, id uuid.UUID, claimed, previous, now time.Time) error {
	ok, err := uc.subscriptions.MoveNextDelivery(context.WithoutCancel(ctx), id, claimed, previous, now)
	if err != nil {
		return errs.Wrapf(err, "failed to restore next delivery date of subscription %s", id)
	}
	if !ok {
		return errs.Newf("next delivery date of subscription %s changed before it could be restored", id)
	}
	return nil
}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.Mark(errs.Newf("invalid start date %q", s), errs.ErrInvalidInput)
}
