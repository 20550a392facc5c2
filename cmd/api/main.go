// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"toko/internal/infra/config"
	"toko/internal/platform/di"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// ─────────────────────────────────────────────────────────────
	// DI (Firestore or local in-memory mode)
	// ─────────────────────────────────────────────────────────────
	initCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	container, err := di.New(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("[boot] di init failed: %v", err)
	}
	defer container.Close()

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     container.Handler(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("[boot] listening on :%s (local=%t)", cfg.Port, cfg.LocalMode())
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] server error: %v", err)
	}

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
