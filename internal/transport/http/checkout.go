package http

import (
	"context"
	"net/http"

	"github.com/Table-Side/Order/internal/domain"
)

// CheckoutRunner is the minimal interface needed to check out an order.
type CheckoutRunner interface {
	Checkout(ctx context.Context, orderID, callerUserID string) (domain.Order, error)
}

// HandleCheckout returns an HTTP handler for POST /orders/{id}/checkout.
func HandleCheckout(auth Authorizer, svc CheckoutRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identify(w, r, auth)
		if !ok {
			return
		}
		orderID := r.PathValue("id")
		if err := auth.CanAccessOrder(r.Context(), userID, orderID); err != nil {
			writeError(w, http.StatusForbidden, "forbidden", "")
			return
		}

		order, err := svc.Checkout(r.Context(), orderID, userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}
