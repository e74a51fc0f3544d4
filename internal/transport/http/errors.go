package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Table-Side/Order/internal/domain"
)

// Responses use the envelope of the original service: success is
// {"data": ...}, failure is {"error": {"message", "details"}}.

type errorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataResponse{Data: data})
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{Error: errorBody{Message: message, Details: details}})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":{"message":"internal error"}}`))
		return
	}
	_, _ = w.Write(payload)
}

// writeServiceError maps domain errors onto the HTTP taxonomy. Upstream
// failures carry the upstream response body as details.
func writeServiceError(w http.ResponseWriter, err error) {
	var upstream *domain.UpstreamError
	if errors.As(err, &upstream) {
		writeError(w, http.StatusBadGateway, upstream.Kind.Error(), upstream.Body)
		return
	}

	switch {
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOrderItemNotFound),
		errors.Is(err, domain.ErrItemNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrItemUnavailable):
		writeError(w, http.StatusGone, err.Error(), "")
	case errors.Is(err, domain.ErrAlreadyCheckedOut):
		writeError(w, http.StatusConflict, err.Error(), "Order has already been checked out.")
	case errors.Is(err, domain.ErrDuplicateItem):
		writeError(w, http.StatusConflict, err.Error(), "Update the quantity instead of adding again.")
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error(), "To remove an item from the order, use the remove endpoint.")
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrRestaurantRequired),
		errors.Is(err, domain.ErrInvalidID):
		writeError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrNotOrderOwner):
		writeError(w, http.StatusForbidden, err.Error(), "")
	case errors.Is(err, domain.ErrCatalogUnavailable),
		errors.Is(err, domain.ErrKitchenUnavailable):
		writeError(w, http.StatusBadGateway, err.Error(), "")
	default:
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}
