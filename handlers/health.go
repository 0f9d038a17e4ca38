package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gametracker/cache"
	"gametracker/db"
)

// HealthCheck reports the local store, the cache and the upstream breaker.
// Only the local store is required; the others degrade.
func HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	status := "ok"
	code := http.StatusOK

	database := "up"
	if err := db.Ping(); err != nil {
		database = "down"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	redis := "up"
	if !cache.IsRedisAvailable(ctx) {
		redis = "down"
	}

	breaker := "unknown"
	if Client != nil {
		breaker = Client.BreakerState().String()
	}
	if status == "ok" && (redis == "down" || breaker != "closed") {
		status = "degraded"
	}

	body := gin.H{
		"status":   status,
		"database": database,
		"redis":    redis,
		"upstream": breaker,
	}
	if redis == "up" {
		if stats, err := cache.GetCacheStats(ctx); err == nil {
			body["cache"] = stats
		}
	}
	c.JSON(code, body)
}
