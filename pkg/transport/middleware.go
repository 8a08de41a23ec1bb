package transport

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/pkg/transport/auth"
)

// requestLogger logs each request at INFO (DEBUG for healthchecks) using
// the structured logger, mirroring the reference corpus's chi middleware.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		args := []any{
			logger.RequestID(requestID),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Status(ww.Status()),
			logger.DurationMs(float64(time.Since(start).Microseconds()) / 1000.0),
		}

		if isHealthPath(r.URL.Path) {
			logger.Debug("request completed", args...)
		} else {
			logger.Info("request completed", args...)
		}
	})
}

func isHealthPath(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// jwtAuth gates admin routes behind a bearer-token admin JWT.
func jwtAuth(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(header, prefix) {
				unauthorized(w, "missing bearer token")
				return
			}

			if _, err := svc.ValidateToken(strings.TrimPrefix(header, prefix)); err != nil {
				unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
