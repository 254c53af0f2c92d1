package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/pairhouse/internal/catalog"
	"github.com/dukerupert/pairhouse/internal/config"
	"github.com/dukerupert/pairhouse/internal/database"
	"github.com/dukerupert/pairhouse/internal/email"
	"github.com/dukerupert/pairhouse/internal/logging"
	"github.com/dukerupert/pairhouse/internal/server"
)

const (
	cleanupInterval   = time.Hour
	ownerSetRetention = 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.BaseURL)
	if !emailClient.Configured() {
		logger.Warn("postmark token not set, invitation emails disabled")
	}

	movieCatalog := catalog.NewClient(cfg.KinopoiskAPIKey)
	if !movieCatalog.Configured() {
		logger.Warn("kinopoisk API key not set, movie search disabled")
	}

	srv := server.New(db, cfg, emailClient, movieCatalog, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runCleanup(ctx, srv, logger.With("component", "cleanup"))

	// No read/write timeouts: /ws connections are long-lived.
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("pairhouse running", "addr", "http://localhost:"+cfg.Port, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

// runCleanup prunes expired sessions, idle rate-limit buckets and stale
// owner-set fallbacks until ctx is cancelled.
func runCleanup(ctx context.Context, srv *server.Server, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := srv.SessionStore().DeleteExpired(ctx)
			if err != nil {
				logger.Error("delete expired sessions", "error", err)
			} else if n > 0 {
				logger.Info("deleted expired sessions", "count", n)
			}
			if pruned := srv.RateLimiter().Cleanup(); pruned > 0 {
				logger.Debug("pruned rate limit buckets", "count", pruned)
			}
			if pruned := srv.Households().Prune(time.Now().Add(-ownerSetRetention)); pruned > 0 {
				logger.Debug("pruned owner sets", "count", pruned)
			}
		}
	}
}
