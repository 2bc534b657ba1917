package handler

import (
	"context"
	"net/http"
	"time"

	"cotizador/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health reports store and queue connectivity plus the state of the outbound
// circuit breakers. rdb is nil when the worker queue is disabled.
func Health(store infra.KVStore, rdb *redis.Client, breakers ...*infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storeStatus := "connected"
		if store.Ping(ctx) != nil {
			storeStatus = "error"
		}

		queueStatus := "disabled"
		if rdb != nil {
			queueStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				queueStatus = "error"
			}
		}

		circuits := make(gin.H, len(breakers))
		for _, cb := range breakers {
			circuits[cb.Name()] = cb.State().String()
		}

		status := http.StatusOK
		if storeStatus != "connected" || queueStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"store":    storeStatus,
			"queue":    queueStatus,
			"circuits": circuits,
		})
	}
}
