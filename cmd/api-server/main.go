package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"bookrental/database"
	"bookrental/internal/config"
	applog "bookrental/internal/logger"
	"bookrental/internal/middleware/auth"
	"bookrental/internal/microservices/http-api/handler"
	"bookrental/internal/microservices/http-api/repository"
	"bookrental/internal/microservices/http-api/service"
	"bookrental/internal/ratelimit"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = 10 * time.Minute
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	format := cfg.LogFormat
	if cfg.IsProduction() {
		format = "json"
	}
	logger := applog.New(applog.Config{Level: cfg.LogLevel, Format: format})
	slog.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database_connect_failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	health := map[string]handler.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions, err := newSessionStore(ctx, cfg, db, logger, health)
	if err != nil {
		logger.Error("session_store_failed", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	rentalRepo := repository.NewRentalRepository(db)

	loginLimiter := ratelimit.New(cfg.LoginRateLimit, cfg.LoginRateBurst)
	go sweepLimiter(ctx, loginLimiter)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:         service.NewAuthService(userRepo, sessions, auth.NewHasher(auth.DefaultParams), cfg, logger),
		Books:        service.NewBookService(bookRepo, rentalRepo),
		Rentals:      service.NewRentalService(rentalRepo, bookRepo, logger),
		Admin:        service.NewAdminGate(userRepo),
		Logger:       logger,
		LoginLimiter: loginLimiter,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Health:       health,

		TrustedProxies: cfg.TrustedProxies,
	})

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           corsHandler(router),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", server.Addr, "session_store", cfg.SessionStore)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received_shutdown_signal")
	case err := <-errChan:
		logger.Error("server_error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
		return
	}
	logger.Info("server_stopped_gracefully")
}

// newSessionStore picks Redis or the sessions table. The database store
// gets a background cleanup of expired rows; Redis expires keys itself.
func newSessionStore(
	ctx context.Context,
	cfg *config.Config,
	db *gorm.DB,
	logger *slog.Logger,
	health map[string]handler.Pinger,
) (repository.SessionRepository, error) {
	if cfg.SessionStore == config.SessionStoreRedis {
		store, err := repository.NewRedisSessionRepository(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		health["redis"] = store.Ping
		go func() {
			<-ctx.Done()
			store.Close()
		}()
		return store, nil
	}

	store := repository.NewSessionRepository(db)
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := store.DeleteExpired(ctx)
				if err != nil {
					logger.Warn("session_cleanup_failed", "error", err)
					continue
				}
				if n > 0 {
					logger.Debug("session_cleanup", "deleted", n)
				}
			}
		}
	}()
	return store, nil
}

func sweepLimiter(ctx context.Context, limiter *ratelimit.KeyedRateLimiter) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}
