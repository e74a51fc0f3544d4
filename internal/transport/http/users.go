package http

import (
	"context"
	"net/http"

	"github.com/Table-Side/Order/internal/domain"
)

// OrderLister is the minimal interface needed to list a user's orders.
type OrderLister interface {
	ListActive(ctx context.Context, userID string) ([]domain.Order, error)
	ListHistory(ctx context.Context, userID string) ([]domain.Order, error)
}

// HandleListActive returns an HTTP handler for
// GET /users/{id}/orders/active: the user's open orders.
func HandleListActive(auth Authorizer, svc OrderLister) http.HandlerFunc {
	return listOrders(auth, func(ctx context.Context, userID string) ([]domain.Order, error) {
		return svc.ListActive(ctx, userID)
	})
}

// HandleListHistory returns an HTTP handler for
// GET /users/{id}/orders/history: the user's checked-out orders.
func HandleListHistory(auth Authorizer, svc OrderLister) http.HandlerFunc {
	return listOrders(auth, func(ctx context.Context, userID string) ([]domain.Order, error) {
		return svc.ListHistory(ctx, userID)
	})
}

func listOrders(auth Authorizer, list func(ctx context.Context, userID string) ([]domain.Order, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := identify(w, r, auth)
		if !ok {
			return
		}
		userID := r.PathValue("id")
		if err := auth.CanActForUser(r.Context(), callerID, userID); err != nil {
			writeError(w, http.StatusForbidden, "forbidden", "")
			return
		}

		orders, err := list(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponses(orders))
	}
}
