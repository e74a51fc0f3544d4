package http

import (
	"log"
	"net/http"
	"time"
)

// RequestLogger logs method, path, caller, status, and latency for every
// request. The caller field is the gateway identity header, "-" when absent.
func RequestLogger(next http.Handler, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		caller := r.Header.Get(identityHeader)
		if caller == "" {
			caller = "-"
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.Printf(
			"request method=%s path=%s caller=%s status=%d duration=%s",
			r.Method,
			r.URL.Path,
			caller,
			rec.status,
			time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
