package middleware

import (
	"go-selfservice/internal/domain"
	"go-selfservice/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ScopeEnforcer is satisfied by rbac.Service.
type ScopeEnforcer interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// ScopeAuthorize requires the caller's token type to grant resource:action.
func ScopeAuthorize(enforcer ScopeEnforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenType := c.GetString(ContextTokenType)
		if tokenType == "" {
			abort(c, ErrTokenMissing)
			return
		}

		allowed, err := enforcer.Enforce(domain.EnforceRequest{
			TokenType: tokenType,
			Resource:  resource,
			Action:    action,
		})
		if err != nil {
			abort(c, apperror.ErrInternal.WithErr(err))
			return
		}
		if !allowed {
			abort(c, ErrScopeForbidden.WithDetail("Token does not grant "+resource+":"+action+"."))
			return
		}
		c.Next()
	}
}
