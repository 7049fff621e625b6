package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/extremegraphics/lead-pipeline-api/internal/domain"
	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a 500 INTERNAL_ERROR response
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("request_id", RequestID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, domain.CodeInternal, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
