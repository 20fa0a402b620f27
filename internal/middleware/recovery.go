package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dajeong-labs/dajeong/internal/api"
)

// Recovery converts panics into 500 responses instead of dropped connections.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", GetRequestID(r.Context()),
					"stack", string(debug.Stack()),
				)
				api.HandleError(w, api.ErrInternalServer)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
