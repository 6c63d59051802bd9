package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rehabworks/catalog/internal/api"
	"github.com/rehabworks/catalog/internal/config"
	"github.com/rehabworks/catalog/internal/database"
	"github.com/rehabworks/catalog/internal/events"
	"github.com/rehabworks/catalog/internal/handlers"
	"github.com/rehabworks/catalog/internal/logger"
	"github.com/rehabworks/catalog/internal/repository"
)

const shutdownTimeout = 30 * time.Second

// Server wraps the HTTP server with graceful shutdown handling.
type Server struct {
	server *http.Server
	logger logger.Logger
}

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(
	cfg *config.Config,
	db *database.DB,
	publisher *events.Publisher,
	log logger.Logger,
) *Server {
	contentRepo := repository.NewContentRepository(db.DB(), log)
	contentHandler := handlers.NewContentHandler(contentRepo, publisher, log)
	router := api.NewRouter(contentHandler, db, cfg.Server.CORSOrigins, log)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		logger: log,
	}
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Run() error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		s.logger.Info("Shutdown signal received",
			logger.String("signal", sig.String()),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
