package http

import (
	"net/http"
)

// HealthHandler reports liveness in the same data envelope as the rest of
// the API.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
