package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Table-Side/Order/internal/domain"
)

// ItemAdder is the minimal interface needed to add an item to an order.
type ItemAdder interface {
	AddItem(ctx context.Context, orderID, itemID string, quantity int) (domain.Order, error)
}

// HandleAddItem returns an HTTP handler for POST /orders/{id}/items.
func HandleAddItem(auth Authorizer, svc ItemAdder) http.HandlerFunc {
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

		var req addItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}
		if req.ItemID == "" {
			writeError(w, http.StatusBadRequest, "itemId is required", "")
			return
		}

		order, err := svc.AddItem(r.Context(), orderID, req.ItemID, req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// QuantityUpdater is the minimal interface needed to change an item's
// quantity.
type QuantityUpdater interface {
	UpdateQuantity(ctx context.Context, orderID, orderItemID string, quantity int) (domain.Order, error)
}

// HandleUpdateQuantity returns an HTTP handler for
// PATCH /orders/{id}/items/{itemID}.
func HandleUpdateQuantity(auth Authorizer, svc QuantityUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identify(w, r, auth)
		if !ok {
			return
		}
		if err := auth.CanAccessOrder(r.Context(), userID, r.PathValue("id")); err != nil {
			writeError(w, http.StatusForbidden, "forbidden", "")
			return
		}

		var req updateQuantityRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", "")
			return
		}

		order, err := svc.UpdateQuantity(r.Context(), r.PathValue("id"), r.PathValue("itemID"), req.Quantity)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ItemRemover is the minimal interface needed to remove an item.
type ItemRemover interface {
	RemoveItem(ctx context.Context, orderID, orderItemID string) (domain.Order, error)
}

// HandleRemoveItem returns an HTTP handler for
// DELETE /orders/{id}/items/{itemID}.
func HandleRemoveItem(auth Authorizer, svc ItemRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := identify(w, r, auth)
		if !ok {
			return
		}
		if err := auth.CanAccessOrder(r.Context(), userID, r.PathValue("id")); err != nil {
			writeError(w, http.StatusForbidden, "forbidden", "")
			return
		}

		order, err := svc.RemoveItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, toOrderResponse(order))
	}
}
