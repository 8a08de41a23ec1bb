// Package transport exposes the Sequencer's Token Allocator over an
// HTTP/JSON RPC surface.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/marmos91/sequencer/pkg/sequencer"
	"github.com/marmos91/sequencer/pkg/transport/auth"
)

// NewRouter builds the chi router for the Sequencer's HTTP API.
//
// Routes:
//   - POST /v1/tokens             - token allocation, unauthenticated
//   - GET  /health                - liveness probe
//   - GET  /health/ready          - readiness probe
//   - GET  /v1/admin/state        - JWT-authenticated
//   - POST /v1/admin/lease/reset  - JWT-authenticated
func NewRouter(allocator *sequencer.Allocator, adminAuth *auth.Service, leaseStoreHealthy func(ctx context.Context) error) http.Handler {
	return newRouter(allocator, adminAuth, leaseStoreHealthy, time.Now())
}

func newRouter(allocator *sequencer.Allocator, adminAuth *auth.Service, leaseStoreHealthy func(ctx context.Context) error, startedAt time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	health := &healthHandler{leaseStoreHealthy: leaseStoreHealthy, startedAt: startedAt}
	r.Route("/health", func(r chi.Router) {
		r.Get("/", health.liveness)
		r.Get("/ready", health.readiness)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/health", http.StatusTemporaryRedirect)
	})

	tokens := &tokenHandler{allocator: allocator}
	r.Post("/v1/tokens", tokens.handle)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(jwtAuth(adminAuth))

		state := &adminStateHandler{allocator: allocator, leaseStoreHealthy: leaseStoreHealthy}
		r.Get("/state", state.handle)

		reset := &leaseResetHandler{reset: allocator.ResetLease}
		r.Post("/lease/reset", reset.handle)
	})

	return r
}
