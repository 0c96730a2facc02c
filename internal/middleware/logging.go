package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/personalhub/hub/internal/ctxkeys"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Paths to skip logging (health probes)
var skipLoggingPaths = map[string]bool{
	"/healthz": true,
}

// RequestLogging logs HTTP requests with method, path, status, and duration
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipLoggingPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"request_id", ctxkeys.RequestID(r.Context()),
		}
		if user := ctxkeys.User(r.Context()); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		slog.Info("http request", attrs...)
	})
}
