package domain

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrItemNotFound       = errors.New("item not found in restaurant catalog")
	ErrItemUnavailable    = errors.New("item not available to order at this time")
	ErrDuplicateItem      = errors.New("item already in order")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrAlreadyCheckedOut  = errors.New("order has already been checked out")
	ErrEmptyOrder         = errors.New("order has no items")
	ErrNotOrderOwner      = errors.New("order does not belong to user")
	ErrRestaurantRequired = errors.New("restaurant id is required")
	ErrInvalidID          = errors.New("invalid id")

	ErrCatalogUnavailable = errors.New("catalog service unavailable")
	ErrKitchenUnavailable = errors.New("kitchen service unavailable")

	// ErrOrphanedTransaction marks a compensation failure: a transaction row
	// exists for an order the kitchen never accepted. Operator-visible, not
	// client-retryable.
	ErrOrphanedTransaction = errors.New("orphaned transaction: compensation failed")
)

// UpstreamError carries the status and body of a failed catalog or kitchen
// call. It unwraps to the service's sentinel so callers can branch with
// errors.Is while transport surfaces the body as error details.
type UpstreamError struct {
	Kind       error // ErrCatalogUnavailable or ErrKitchenUnavailable
	StatusCode int   // zero on transport failure
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: status %d", e.Kind.Error(), e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}
