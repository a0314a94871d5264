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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tanmay-ghai/ticketly/internal/cache"
	"github.com/tanmay-ghai/ticketly/internal/config"
	"github.com/tanmay-ghai/ticketly/internal/database"
	"github.com/tanmay-ghai/ticketly/internal/handler"
	"github.com/tanmay-ghai/ticketly/internal/repository"
	"github.com/tanmay-ghai/ticketly/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ── 1. Connect to PostgreSQL and apply migrations ────────────────────
	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()
	log.Println("connected to PostgreSQL")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	// ── 2. Connect to Redis (optional) ───────────────────────────────────
	var store cache.Store = cache.Noop{}
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		store = rdb
		log.Println("connected to Redis")
	} else {
		log.Println("REDIS_ADDR not set, cache disabled")
	}

	// ── 3. Wire up layers ────────────────────────────────────────────────
	ledger := repository.NewCapacityLedger(cfg.LockTimeout)
	eventRepo := repository.NewEventRepository(pool, ledger)
	bookingRepo := repository.NewBookingRepository(pool, ledger)
	waitlistRepo := repository.NewWaitlistRepository(pool, ledger)
	userRepo := repository.NewUserRepository(pool)

	eventSvc := service.NewEventService(eventRepo, store)
	bookingSvc := service.NewBookingService(bookingRepo, userRepo, store)
	waitlistSvc := service.NewWaitlistService(waitlistRepo, userRepo)
	userSvc := service.NewUserService(userRepo, bookingRepo, store)

	eventHandler := handler.NewEventHandler(eventSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	waitlistHandler := handler.NewWaitlistHandler(waitlistSvc)
	userHandler := handler.NewUserHandler(userSvc)
	cacheHandler := handler.NewCacheHandler(store)

	// ── 4. Build the router ──────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	r.Get("/health", handler.HealthCheck)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Get("/{id}/bookings", userHandler.Bookings)
		r.Get("/{id}/waitlists", waitlistHandler.ListByUser)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.List)
		r.Get("/{id}", eventHandler.Get)
		r.Post("/{id}/book", bookingHandler.Book)
		r.Post("/{id}/waitlist", waitlistHandler.Join)
		r.Delete("/{id}/waitlist", waitlistHandler.Leave)
		r.Get("/{id}/waitlist", waitlistHandler.ListByEvent)
		r.Get("/{id}/waitlist/position", waitlistHandler.Position)

		r.Group(func(r chi.Router) {
			r.Use(handler.RequireAdmin(userSvc))
			r.Post("/", eventHandler.Create)
			r.Put("/{id}", eventHandler.Update)
		})
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/{id}", bookingHandler.Get)
		r.Post("/{id}/cancel", bookingHandler.Cancel)
	})

	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAdmin(userSvc))
		r.Get("/admin/analytics", eventHandler.Analytics)
		r.Get("/admin/cache/status", cacheHandler.Status)
		r.Delete("/admin/cache", cacheHandler.Clear)
		r.Delete("/admin/cache/events", cacheHandler.ClearEvents)
	})

	// ── 5. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}
