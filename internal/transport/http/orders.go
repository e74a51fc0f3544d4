package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Table-Side/Order/internal/app"
	"github.com/Table-Side/Order/internal/domain"
)

// OrderCreator is the minimal interface needed to open an order.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in app.CreateOrderInput) (domain.Order, error)
}

// HandleCreateOrder returns an HTTP handler for POST /orders.
func HandleCreateOrder(auth Authorizer, svc OrderCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identify(w, r, auth)
		if !ok {
			return
		}

		var req createOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
		if req.RestaurantID == "" {
			writeServiceError(w, domain.ErrRestaurantRequired)
			return
		}

		order, err := svc.CreateOrder(r.Context(), app.CreateOrderInput{
			UserID:       userID,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusCreated, toOrderResponse(order))
	}
}

type createOrderRequest struct {
	RestaurantID string `json:"restaurantId"`
}

// OrderReader is the minimal interface needed to fetch an order.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// HandleGetOrder returns an HTTP handler for GET /orders/{id}.
func HandleGetOrder(auth Authorizer, svc OrderReader) http.HandlerFunc {
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

		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}

// OrderAbandoner is the minimal interface needed to abandon an order.
type OrderAbandoner interface {
	AbandonOrder(ctx context.Context, orderID string) (domain.Order, error)
}

// HandleAbandonOrder returns an HTTP handler for DELETE /orders/{id}.
// Abandoning is only permitted before checkout.
func HandleAbandonOrder(auth Authorizer, svc OrderAbandoner) http.HandlerFunc {
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

		order, err := svc.AbandonOrder(r.Context(), orderID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}
