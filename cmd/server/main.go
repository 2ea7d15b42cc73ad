package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/huma-contacts/internal/platform/config"
	"github.com/janisto/huma-contacts/internal/platform/logging"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

// newServer applies the HTTP server limits.
func newServer(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(ctx, "logger sync error", err)
		}
	}()
	if err := logging.Err(); err != nil {
		logging.LogError(ctx, "logger init error", err)
	}

	cfg, err := config.Load(".env")
	if err != nil {
		logging.LogError(ctx, "invalid configuration", err)
		return 1
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		logging.LogError(ctx, "backend init failed", err,
			zap.String("store", cfg.Store), zap.String("authMode", cfg.AuthMode))
		return 1
	}
	defer func() {
		if err := b.Close(); err != nil {
			logging.LogError(ctx, "backend close error", err)
		}
	}()

	router, err := newRouter(cfg, b)
	if err != nil {
		logging.LogError(ctx, "router init failed", err)
		return 1
	}

	srv := newServer(cfg.Port, router)

	listenErr := make(chan error, 1)
	go func() {
		logging.LogInfo(ctx, "server listening",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store),
			zap.String("authMode", cfg.AuthMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		logging.LogError(ctx, "listen failed", err, zap.String("addr", srv.Addr))
		return 1
	case <-stop:
		logging.LogInfo(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(shutdownCtx, "server shutdown error", err)
	}
	logging.LogInfo(ctx, "server exited")
	return 0
}
