// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ticketline/ticketline/internal/config"
	"github.com/ticketline/ticketline/internal/database"
	"github.com/ticketline/ticketline/internal/handler"
	"github.com/ticketline/ticketline/internal/repository"
	"github.com/ticketline/ticketline/internal/repository/postgres"
	"github.com/ticketline/ticketline/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Pick the storage backend ───────────────────────────────────────
	var (
		eventStore   repository.EventStore
		bookingStore repository.BookingStore
		userStore    repository.UserStore
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		pool, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		eventStore = postgres.NewEventStore(pool)
		bookingStore = postgres.NewBookingStore(pool)
		userStore = postgres.NewUserStore(pool)
		log.Println("✓ Connected to PostgreSQL")
	default:
		events := repository.NewMemoryEventStore()
		users := repository.NewMemoryUserStore()
		if err := repository.SeedDemo(ctx, users, events); err != nil {
			log.Fatalf("seed: %v", err)
		}
		eventStore = events
		bookingStore = repository.NewMemoryBookingStore()
		userStore = users
		log.Println("✓ Using in-memory storage with demo data")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	authSvc := service.NewAuthService(userStore, []byte(cfg.JWTSecret))
	eventSvc := service.NewEventService(eventStore, userStore)
	bookingSvc := service.NewBookingService(eventStore, bookingStore, userStore)
	validationSvc := service.NewValidationService(bookingStore, eventStore)
	h := handler.New(authSvc, eventSvc, bookingSvc, validationSvc)

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      handler.Routes(h, []byte(cfg.JWTSecret)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
