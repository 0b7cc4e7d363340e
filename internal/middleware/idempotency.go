package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-selfservice/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyCacheKey = "idempotency_cache_key"
	idempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays completed POSTs that repeat an Idempotency-Key and
// rejects duplicates still in flight with 409. The handler owns releasing
// the lock and storing the result, see ReleaseIdempotencyLock and
// RememberIdempotentResponse.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	logger := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		employeeID := c.GetString(ContextEmployeeID)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.Request.URL.Path, employeeID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached cachedResponse
			if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		} else if !errors.Is(err, redis.Nil) {
			// redis down: serve the request without protection
			logger.Warn("idempotency cache unavailable", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			abort(c, ErrRequestInProgress)
			return
		}

		c.Set(idempotencyCacheKey, cacheKey)
		c.Set(idempotencyLockKey, lockKey)

		c.Next()
	}
}

// ReleaseIdempotencyLock drops the in-flight lock taken by Idempotency.
func ReleaseIdempotencyLock(c *gin.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if lk := c.GetString(idempotencyLockKey); lk != "" {
		_ = rdb.Del(c.Request.Context(), lk).Err()
	}
}

// RememberIdempotentResponse caches a successful result for replay.
func RememberIdempotentResponse(c *gin.Context, rdb *redis.Client, status int, data any) {
	if rdb == nil {
		return
	}
	ck := c.GetString(idempotencyCacheKey)
	if ck == "" {
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(cachedResponse{Status: status, Data: body})
	if err != nil {
		return
	}
	_ = rdb.Set(c.Request.Context(), ck, payload, idempotencyCacheTTL).Err()
}
