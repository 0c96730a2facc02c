package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/personalhub/hub/internal/ctxkeys"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags each request with a random id, echoed in the response
// header and stored in the context for log correlation.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := generateRequestID()
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctxkeys.WithRequestID(r.Context(), id)))
	})
}

// generateRequestID returns 16 random bytes hex encoded
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}
