package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/CohortApp/internal/config"
	"github.com/GoArmGo/CohortApp/internal/handler"
)

const shutdownTimeout = 30 * time.Second

// runServer запускает HTTP сервер и блокируется до отмены ctx
func runServer(ctx context.Context, cfg *config.Config, deps Deps, logger *slog.Logger) error {
	router := handler.NewRouter(handler.RouterDeps{
		Users:          deps.Users,
		Cohorts:        deps.Cohorts,
		Posts:          deps.Posts,
		Health:         deps.Health,
		JWTSecret:      []byte(cfg.JWTSecret),
		JWTExpiry:      cfg.JWTExpiry,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}
