package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logging returns a middleware that logs every request.
// It logs the method, path, status, request ID and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start).Milliseconds()
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"request_id", chimw.GetReqID(r.Context()),
				"duration_ms", duration,
			}
			switch {
			case status >= 500:
				logger.Error("HTTP error", attrs...)
			case status >= 400:
				logger.Warn("HTTP error", attrs...)
			default:
				logger.Info("HTTP ok", attrs...)
			}
		})
	}
}
