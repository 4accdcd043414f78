package subscription

import (
	"time"

	"github.com/Meet5113/greencart-backend/internal/pkg/errs"

	"github.com/google/uuid"
)

// PaymentMethod tags orders materialized from subscriptions.
const PaymentMethod = "SUBSCRIPTION"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusActive:    {StatusPaused, StatusCancelled},
	StatusPaused:    {StatusCancelled},
	StatusCancelled: {},
}

// ParseRequestedStatus accepts only the statuses a subscriber may ask for.
func ParseRequestedStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPaused, StatusCancelled:
		return st, nil
	}
	return "", errs.Mark(errs.Newf("status must be paused or cancelled, got %q", s), errs.ErrInvalidInput)
}

func (s Status) String() string { return string(s) }

type Subscription struct {
	id           uuid.UUID
	userID       uuid.UUID
	productID    uuid.UUID
	quantity     int
	frequency    Frequency
	startDate    time.Time
	nextDelivery time.Time
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

// NewSubscription schedules the first delivery one step after start.
func NewSubscription(userID, productID uuid.UUID, quantity int, frequency Frequency, start, now time.Time) (*Subscription, error) {
	if quantity < 1 {
		return nil, errs.Mark(errs.Newf("quantity must be at least 1, got %d", quantity), errs.ErrInvalidInput)
	}
	if !frequency.Valid() {
		return nil, errs.Mark(errs.Newf("invalid frequency %q", frequency), errs.ErrInvalidInput)
	}
	if start.IsZero() {
		return nil, errs.Mark(errs.New("start date is required"), errs.ErrInvalidInput)
	}
	return &Subscription{
		id:           uuid.New(),
		userID:       userID,
		productID:    productID,
		quantity:     quantity,
		frequency:    frequency,
		startDate:    start,
		nextDelivery: frequency.Step(start),
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructSubscription(
	id, userID, productID uuid.UUID,
	quantity int,
	frequency Frequency,
	startDate, nextDelivery time.Time,
	status Status,
	createdAt, updatedAt time.Time,
) *Subscription {
	return &Subscription{
		id:           id,
		userID:       userID,
		productID:    productID,
		quantity:     quantity,
		frequency:    frequency,
		startDate:    startDate,
		nextDelivery: nextDelivery,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (s *Subscription) ID() uuid.UUID           { return s.id }
func (s *Subscription) UserID() uuid.UUID       { return s.userID }
func (s *Subscription) ProductID() uuid.UUID    { return s.productID }
func (s *Subscription) Quantity() int           { return s.quantity }
func (s *Subscription) Frequency() Frequency    { return s.frequency }
func (s *Subscription) StartDate() time.Time    { return s.startDate }
func (s *Subscription) NextDelivery() time.Time { return s.nextDelivery }
func (s *Subscription) Status() Status          { return s.status }
func (s *Subscription) CreatedAt() time.Time    { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time    { return s.updatedAt }

// ChangeStatus applies a subscriber request. Cancelled is terminal; asking for
// the current status is a no-op.
func (s *Subscription) ChangeStatus(next Status, now time.Time) (changed bool, err error) {
	if s.status == StatusCancelled {
		return false, errs.ErrSubscriptionCancelled
	}
	if s.status == next {
		return false, nil
	}
	for _, allowed := range transitions[s.status] {
		if allowed == next {
			s.status = next
			s.updatedAt = now
			return true, nil
		}
	}
	return false, errs.Mark(
		errs.Newf("invalid subscription transition from %s to %s", s.status, next),
		errs.ErrInvalidTransition,
	)
}

// Advance moves the next delivery past now and returns the new date. Cycles
// are stepped in UTC, the zone start dates are parsed in, so month clamping
// and day counts do not depend on the zone a stored time was read back in.
func (s *Subscription) Advance(now time.Time) time.Time {
	s.nextDelivery = s.frequency.AdvancePastNow(s.nextDelivery.UTC(), now)
	s.updatedAt = now
	return s.nextDelivery
}
