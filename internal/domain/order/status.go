package order

import "github.com/Meet5113/greencart-backend/internal/pkg/errs"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// transitions is the only place order status rules live.
// Cancelling does not restock.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := transitions[st]; !ok {
		return "", errs.Mark(errs.Newf("invalid status value %q", s), errs.ErrInvalidInput)
	}
	return st, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo treats a request for the current status as allowed.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
