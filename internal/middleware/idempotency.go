package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/shop_finance_ledger/internal/platform/cache"
	"github.com/gin-gonic/gin"
)

// IdempotencyHeader is the request header carrying a client-chosen idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// Idempotency rejects a repeated mutation carrying an already accepted Idempotency-Key
// with 409. Requests without the header pass through. The key is released when the
// request fails, so the client may retry it.
func Idempotency(store cache.IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || store == nil {
			c.Next()
			return
		}

		logger := GetLoggerFromCtx(c.Request.Context())
		tenantID, _ := GetTenantIDFromContext(c)
		scopedKey := tenantID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		isNew, err := store.MarkProcessed(c.Request.Context(), scopedKey, ttl)
		if err != nil {
			logger.Error("Idempotency store unavailable", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "persistence_error", "message": "an internal error occurred"})
			return
		}
		if !isNew {
			logger.Warn("Duplicate request rejected", slog.String("idempotency_key", key))
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "duplicate_request", "message": "a request with this Idempotency-Key was already processed"})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(c.Request.Context(), scopedKey); err != nil {
				logger.Warn("Failed to release idempotency key", slog.String("error", err.Error()))
			}
		}
	}
}
