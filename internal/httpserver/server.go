package httpserver

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"authgate/backend/internal/config"
	"authgate/backend/internal/observability"
	authusecase "authgate/backend/internal/usecase/auth"
)

// Server wraps the HTTP server lifecycle.
type Server struct {
	httpServer  *http.Server
	router      *http.ServeMux
	handler     http.Handler
	authService *authusecase.Service
	tokens      authusecase.TokenVerifier
	metrics     *observability.Metrics
	logger      *slog.Logger
	addr        string
}

// NewServer constructs a new Server with configured dependencies.
func NewServer(
	cfg config.Config,
	logger *slog.Logger,
	metrics *observability.Metrics,
	authService *authusecase.Service,
	tokens authusecase.TokenVerifier,
) *Server {
	mux := http.NewServeMux()
	addr := cfg.HTTPPort
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	srv := &Server{
		router:      mux,
		authService: authService,
		tokens:      tokens,
		metrics:     metrics,
		logger:      logger,
		addr:        addr,
	}
	srv.handler = srv.withLogging(withCORS(mux, cfg.AllowedOrigins))
	srv.httpServer = &http.Server{
		Addr:         addr,
		Handler:      srv.handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeoutSec) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
	srv.registerRoutes()
	return srv
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	return s.httpServer.Serve(l)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the fully wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured network address for the HTTP server.
func (s *Server) Addr() string {
	return s.addr
}
