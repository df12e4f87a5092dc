package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"enemyintel/internal/logging"
)

// RequestIDHeader carries the correlation ID in both directions.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withRequestID tags every request with an ID (the caller's, or a fresh
// UUID) and logs it with the outcome.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log := logging.Get(logging.CategoryAPI).With("request_id", id)
		if rec.status >= http.StatusInternalServerError {
			log.Error("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
			return
		}
		log.Debug("%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
