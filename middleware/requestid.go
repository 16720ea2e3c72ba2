package middleware

import (
	"context"
	"net/http"
	"time"

	"authapi/logging"

	"github.com/google/uuid"
)

// RequestID tags every request with a correlation ID and logs it on
// completion.
func RequestID(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", id)

			ctx := context.WithValue(r.Context(), requestIDContextKey, id)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			log.Info(ctx, "request handled",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// RequestIDFrom returns the correlation ID for the request, if set.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDContextKey).(string)
	return id, ok
}
