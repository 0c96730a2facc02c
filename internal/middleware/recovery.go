package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/personalhub/hub/internal/ctxkeys"
	"github.com/personalhub/hub/internal/respond"
)

// Recovery turns a panic into a 500 envelope and logs it with the stack.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			slog.Error("panic recovered",
				"panic", rec,
				"path", r.URL.Path,
				"request_id", ctxkeys.RequestID(r.Context()),
				"stack", string(debug.Stack()),
			)
			respond.Error(w, http.StatusInternalServerError, respond.CodeInternal, "Internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
