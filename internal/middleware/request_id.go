package middleware

import (
	"net/http"
	"time"

	"vet-care-reminders/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLog registra una línea por request con el request id de chimw.RequestID.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if acc, ok := AccountID(r.Context()); ok {
				fields["account_id"] = acc
			}
			if status >= 500 {
				log.Warn("http request", fields)
				return
			}
			log.Debug("http request", fields)
		})
	}
}
