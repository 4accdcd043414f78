package errs

// Sentinel errors shared by the domain and usecase layers.
// Callers mark concrete failures with these and match them with Is.
var (
	// Validation: malformed input rejected before any mutation
	ErrInvalidLineItem = New("invalid line item")
	ErrInvalidInput    = New("invalid input")

	// Preconditions on products and carts
	ErrProductNotFound    = New("product not found")
	ErrProductInactive    = New("product is not active")
	ErrStockNotConfigured = New("product stock is not configured")
	ErrInsufficientStock  = New("insufficient stock")
	ErrEmptyCart          = New("cart is empty")

	// Lookups
	ErrOrderNotFound        = New("order not found")
	ErrSubscriptionNotFound = New("subscription not found")

	// State machines
	ErrInvalidTransition     = New("invalid status transition")
	ErrSubscriptionCancelled = New("cancelled subscription cannot be updated")

	// Consistency: a compensating write failed and stock may be wrong
	ErrCompensationFailed = New("stock compensation failed")
)

// IsConsistency reports whether err belongs to the severe class that
// leaves persisted stock out of step with persisted orders.
func IsConsistency(err error) bool {
	return Is(err, ErrCompensationFailed)
}
