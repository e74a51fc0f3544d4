package http

import (
	"net/http"
	"time"
)

// Service-to-service surface. Sibling services identify themselves with the
// X-Request-From header on internal calls; the gateway never forwards
// /internal paths, so no user identity is involved.

const serviceCallerHeader = "X-Request-From"

type internalOrderResponse struct {
	ID            string    `json:"id"`
	ForUser       string    `json:"forUser"`
	ForRestaurant string    `json:"forRestaurant"`
	CreatedAt     time.Time `json:"createdAt"`
}

// HandleInternalGetOrder returns an HTTP handler for
// GET /internal/orders/{id}: the bare order row, without items or
// transaction, for sibling services that only need existence and ownership.
func HandleInternalGetOrder(svc OrderReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(serviceCallerHeader) == "" {
			writeError(w, http.StatusUnauthorized, "unknown caller", "")
			return
		}

		order, err := svc.GetOrder(r.Context(), r.PathValue("id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeData(w, http.StatusOK, internalOrderResponse{
			ID:            order.ID,
			ForUser:       order.ForUser,
			ForRestaurant: order.ForRestaurant,
			CreatedAt:     order.CreatedAt,
		})
	}
}
