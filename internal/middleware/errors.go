package middleware

import (
	"go-selfservice/internal/shared/apperror"
	"go-selfservice/internal/shared/response"

	"github.com/gin-gonic/gin"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.KindUnauthorized,
		apperror.CodeUnauthorized,
		"Token not found",
	)
	ErrInvalidToken = apperror.New(
		apperror.KindUnauthorized,
		"INVALID_TOKEN",
		"Invalid token",
	)
	ErrTokenExpired = apperror.New(
		apperror.KindUnauthorized,
		"TOKEN_EXPIRED",
		"Token has expired",
	)
	ErrScopeForbidden = apperror.New(
		apperror.KindForbidden,
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
	)
	ErrRequestInProgress = apperror.New(
		apperror.KindConflict,
		"PROCESSING",
		"A request with this Idempotency-Key is still being processed",
	)
)

// abort writes err as the response envelope and stops the chain.
func abort(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
