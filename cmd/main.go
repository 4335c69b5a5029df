package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"monkeybets/internal/auth"
	"monkeybets/internal/cache"
	"monkeybets/internal/config"
	"monkeybets/internal/database"
	"monkeybets/internal/handlers"
	"monkeybets/internal/jobs"
	"monkeybets/internal/metrics"
	"monkeybets/internal/realtime"
	"monkeybets/internal/repository"
	"monkeybets/internal/services"
	"monkeybets/internal/verify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database.Driver, cfg.GetDSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if cfg.Database.Driver == "postgres" {
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(cfg.GetDSN()); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	} else if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.EnsureWagerPolicy(db, cfg.App.WagerPolicy == config.WagerPolicySingle); err != nil {
		log.Printf("[Database] %v; relying on the row lock alone", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Session and draft store
	var store cache.Store
	if cfg.Redis.URL != "" {
		store = cache.NewRedisStore(cache.MustRedis(cfg.Redis.URL), "monkeybets:")
		log.Println("Using Redis session store")
	} else {
		memory := cache.NewMemoryStore()
		go memory.RunSweeper(ctx, time.Minute)
		store = memory
		log.Println("Using in-memory session store")
	}

	m := metrics.New()
	feed := realtime.NewFeed(m)

	// With Postgres the triggers announce every change, so services stay quiet
	// to avoid duplicate events.
	var publisher realtime.Publisher = feed
	if cfg.Realtime.Source == config.RealtimeSourcePostgres {
		publisher = realtime.NopPublisher{}
		go func() {
			if err := realtime.ListenPostgres(ctx, cfg.GetDSN(), feed); err != nil {
				log.Printf("[Realtime] Postgres listener failed: %v", err)
			}
		}()
	}

	verifier := verify.NewClient(
		cfg.Twilio.AccountSID,
		cfg.Twilio.AuthToken,
		cfg.Twilio.VerifySID,
		verify.WithBaseURL(cfg.Twilio.BaseURL),
	)

	// Initialize repository and services
	repo := repository.NewRepository(db)
	authService := services.NewAuthService(repo, verifier, m)
	draftService := services.NewDraftService(store, cfg.App.DraftTTL)
	propService := services.NewPropService(repo, publisher, m, cfg.App.PublicBaseURL, cfg.App.WagerPolicy)
	wagerService := services.NewWagerService(repo, publisher, m, draftService, cfg.App.WagerPolicy)

	// Expiry is derived from the clock, so announce props as they close
	expiryNotifier := jobs.NewExpiryNotifier(repo, feed, 15*time.Second)
	go expiryNotifier.Start()

	sessions := auth.NewManager(cfg.App.JWTSecret, cfg.App.SessionTTL, store, authService)
	secureCookies := strings.HasPrefix(cfg.App.PublicBaseURL, "https://")

	authLimiter := auth.NewRateLimiter(cfg.Server.AuthRatePerMinute)
	go authLimiter.RunSweeper(ctx, time.Minute)

	// Set up Gin router
	router := gin.Default()
	handlers.RegisterRoutes(router, handlers.RouterDeps{
		Sessions:    sessions,
		AuthLimiter: authLimiter,
		Metrics:     m,
		Changes:     realtime.NewHub(feed, m, cfg.Server.CORSOrigins),
		CORSOrigins: cfg.Server.CORSOrigins,
		Auth:        handlers.NewAuthHandler(authService, sessions, secureCookies),
		Props:       handlers.NewPropHandler(propService),
		Wagers:      handlers.NewWagerHandler(wagerService),
		Drafts:      handlers.NewDraftHandler(draftService, secureCookies),
		Pages:       handlers.NewPageHandler(cfg.Server.StaticDir),
	})
	router.Static("/assets", cfg.Server.StaticDir+"/assets")

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)
		log.Printf("Wager policy: %s, realtime source: %s", cfg.App.WagerPolicy, cfg.Realtime.Source)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	expiryNotifier.Stop()
	stop()

	// Graceful shutdown with 5 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
