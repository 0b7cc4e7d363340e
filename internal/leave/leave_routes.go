package leave

import (
	"go-selfservice/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	scopes middleware.ScopeEnforcer,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	read := middleware.ScopeAuthorize(scopes, "leave-requests", "read")
	write := middleware.ScopeAuthorize(scopes, "leave-requests", "write")
	limit := middleware.RateLimitByEmployee(5, 20)

	me := r.Group("/employees/@me")
	me.Use(auth, middleware.ContextLogger(logger), limit)
	{
		me.GET("/leave-approvals", read, handler.ListApproval)
		me.GET("/leave-requests", read, handler.ListPersonal)
		me.POST("/leave-requests", write, middleware.Idempotency(rdb), handler.Create)
	}

	requests := r.Group("/leave-requests")
	requests.Use(auth, middleware.ContextLogger(logger), limit)
	{
		requests.PATCH("/:leaveRequestId", write, handler.Update)
		requests.POST("/:leaveRequestId/signature-file", write, middleware.Idempotency(rdb), handler.UploadSignature)
	}
}
