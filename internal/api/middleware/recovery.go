package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/api/apierr"
)

// Recovery turns handler panics into a JSON 500.
func Recovery(logger *log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					apierr.WriteError(w, apierr.NewInternalError())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
