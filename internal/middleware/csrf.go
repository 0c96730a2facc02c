package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/respond"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// CSRFProtection implements the double-submit cookie: safe methods receive a
// csrf_token cookie, state-changing methods must echo it in X-CSRF-Token.
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		// Skip CSRF check for safe methods (GET, HEAD, OPTIONS)
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// A freshly generated token cannot have been echoed yet.
		if !validCSRFToken(token, r.Header.Get(csrfHeader)) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", getClientIP(r),
			)
			respond.Error(w, http.StatusForbidden, respond.CodeForbidden, "Invalid CSRF token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getOrGenerateCSRFToken retrieves existing token or generates new one
func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && cookie.Value != "" && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	// Readable by the SPA so it can echo the value in the header.
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false,
		Secure:   isProduction, // Secure flag based on APP_ENV (safer than r.TLS behind load balancers)
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	return token
}

// generateCSRFToken creates cryptographically secure random token
func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// validCSRFToken performs constant-time comparison of tokens
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
