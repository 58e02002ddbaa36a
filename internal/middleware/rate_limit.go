package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sahilvr03/kido-store/internal/cache"
)

const (
	// Limites par fenêtre glissante d'une minute
	OrderMaxRequests = 30
	APIMaxRequests   = 100

	rateLimitWindow = 1 * time.Minute
)

// RateLimit limite le nombre de requêtes par IP sur un endpoint. Sans Redis
// configuré, le middleware laisse tout passer.
func RateLimit(name string, maxRequests int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cache.Enabled() {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())
		count, err := cache.IncrementRateLimit(key, rateLimitWindow)
		if err != nil {
			// Redis en panne ne doit pas bloquer le trafic
			c.Next()
			return
		}

		if count > maxRequests {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Trop de requêtes, réessayez dans une minute",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
