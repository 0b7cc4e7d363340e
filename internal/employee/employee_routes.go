package employee

import (
	"go-selfservice/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	scopes middleware.ScopeEnforcer,
	logger *zap.Logger,
) {
	employees := r.Group("/employees")
	employees.Use(auth)
	employees.Use(middleware.ContextLogger(logger))
	{
		employees.GET("/@me",
			middleware.RateLimitByEmployee(3, 10),
			middleware.ScopeAuthorize(scopes, "employees", "read"),
			handler.GetMe,
		)
	}
}
