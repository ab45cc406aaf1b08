package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// CheckConn answers 200 when every pinger succeeds and 503 otherwise.
func CheckConn(pingers map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(gin.H, len(pingers))
		for name, ping := range pingers {
			if err := ping(ctx); err != nil {
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		message := "API is alive"
		if status != http.StatusOK {
			message = "API is degraded"
		}
		c.JSON(status, gin.H{"message": message, "checks": checks})
	}
}
