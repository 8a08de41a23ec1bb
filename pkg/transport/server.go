package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/sequencer/internal/logger"
	"github.com/marmos91/sequencer/pkg/sequencer"
	"github.com/marmos91/sequencer/pkg/transport/auth"
)

// Server is the Sequencer's HTTP API server.
type Server struct {
	server       *http.Server
	config       Config
	adminAuth    *auth.Service
	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer constructs a Server in a stopped state. Call Start to begin
// serving requests.
func NewServer(config Config, allocator *sequencer.Allocator, leaseStoreHealthy func(ctx context.Context) error) (*Server, error) {
	config.ApplyDefaults()

	secret := config.AdminSecret()
	if len(secret) < 32 {
		return nil, fmt.Errorf("admin JWT secret must be at least 32 characters; set via %s env var or config", EnvAdminSecret)
	}

	adminAuth, err := auth.NewService(auth.Config{
		Secret:        secret,
		TokenDuration: config.Admin.TokenDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin auth service: %w", err)
	}

	startedAt := time.Now()
	router := newRouter(allocator, adminAuth, leaseStoreHealthy, startedAt)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		config:    config,
		adminAuth: adminAuth,
		startedAt: startedAt,
	}, nil
}

// AdminAuth returns the admin auth service, so operators (e.g. the CLI's
// `init` command) can mint bootstrap tokens without a running server.
func (s *Server) AdminAuth() *auth.Service {
	return s.adminAuth
}

// Start serves requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("transport server listening", "port", s.config.Port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("transport server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("transport server failed: %w", err)
	}
}

// Stop initiates graceful shutdown. Safe to call multiple times.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("transport server shutdown error: %w", err)
			logger.Error("transport server shutdown error", "error", err)
		} else {
			logger.Info("transport server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server is configured to listen on.
func (s *Server) Port() int {
	return s.config.Port
}

// StartedAt returns the time the server was constructed, matching the
// value reported by the /health endpoint.
func (s *Server) StartedAt() time.Time {
	return s.startedAt
}
