package middleware

import (
	"net/http"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/respond"
	"github.com/personalhub/hub/internal/service"
)

// AuthMiddleware checks for a JWT cookie and adds the user to the context if valid.
// Requests without a valid session continue anonymously.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AuthCookie)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.UserByID(r.Context(), userID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Security: Remove password hash from context
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}
