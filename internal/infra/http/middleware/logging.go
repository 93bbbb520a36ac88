package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/xavierca1/ligue-crm/internal/logger"
)

// RequestLogger injeta um logger com o request_id no context e loga o fim de cada request.
// Deve vir depois do chimw.RequestID.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := logger.L.With("request_id", chimw.GetReqID(r.Context()))
		ctx := logger.WithContext(r.Context(), l)

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"ip", ClientIP(r),
		}
		if status >= http.StatusInternalServerError {
			l.Error("request", attrs...)
			return
		}
		l.Info("request", attrs...)
	})
}
