package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"qrdaconv/internal/config"
	"qrdaconv/internal/convert"
	"qrdaconv/internal/decode"
	"qrdaconv/internal/logging"
	"qrdaconv/internal/services"
)

// Converter converts in-memory documents. *convert.Converter satisfies it.
type Converter interface {
	ConvertBytes(ctx context.Context, data []byte, opts decode.Options) (*convert.Document, error)
	Options() decode.Options
}

// Server is the HTTP boundary.
type Server struct {
	router   chi.Router
	conv     Converter
	logger   *slog.Logger
	bind     string
	maxBody  int64
	timeout  time.Duration
	listener net.Listener
}

// NewServer creates and configures the HTTP server.
func NewServer(conv Converter, cfg *config.Config, logger *slog.Logger) *Server {
	s := &Server{
		conv:    conv,
		logger:  logging.NewComponentLogger(logger, "api"),
		bind:    cfg.API.Bind,
		maxBody: cfg.API.MaxBodyBytes,
		timeout: time.Duration(cfg.API.ReadTimeoutSeconds) * time.Second,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.logger))

	r.Get("/health", s.handleHealth)
	r.Post("/v1/convert", s.handleConvert)

	s.router = r
}

// Listen binds the configured address. Addr reports the bound address
// afterwards, which matters when the port is 0.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "api", "listen", s.bind, err)
	}
	s.listener = listener
	return nil
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

// Serve handles requests until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.timeout,
		WriteTimeout:      s.timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(s.listener)
	}()
	s.logger.Info("api server listening",
		logging.String(logging.FieldEventType, "api_listen"),
		logging.String("address", s.Addr()),
	)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api shutdown: %w", err)
		}
		s.logger.Info("api server stopped", logging.String(logging.FieldEventType, "api_stop"))
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
