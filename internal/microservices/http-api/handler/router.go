package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"bookrental/internal/microservices/http-api/middleware"
	"bookrental/internal/microservices/http-api/service"
	"bookrental/internal/ratelimit"
)

// RouterDeps is everything NewRouter wires together.
type RouterDeps struct {
	Auth    service.AuthService
	Books   service.BookService
	Rentals service.RentalService
	Admin   service.AdminGate

	Logger       *slog.Logger
	LoginLimiter *ratelimit.KeyedRateLimiter
	SessionTTL   time.Duration
	CookieSecure bool
	Health       map[string]Pinger

	// TrustedProxies may set X-Forwarded-For. Nil trusts none, so the
	// login limiter keys on the peer address.
	TrustedProxies []string
}

// NewRouter builds the gin engine with every API route mounted.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		deps.Logger.Warn("trusted_proxies_rejected", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Session(deps.Auth))

	r.GET("/check-conn", CheckConn(deps.Health))

	NewAuthHandler(deps.Auth, deps.SessionTTL, deps.CookieSecure).
		RegisterRoutes(r.Group("/user"), middleware.RateLimit(deps.LoginLimiter))

	NewBookHandler(deps.Books).
		RegisterRoutes(r.Group("/book", middleware.RequireSession()))

	NewRentalHandler(deps.Rentals).
		RegisterRoutes(r.Group("/rental", middleware.RequireSession()))

	NewAdminHandler(deps.Books, deps.Rentals).
		RegisterRoutes(r.Group("/admin", middleware.RequireSession(), middleware.RequireAdmin(deps.Admin)))

	return r
}
