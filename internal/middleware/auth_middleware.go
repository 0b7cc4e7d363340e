package middleware

import (
	"errors"
	"fmt"
	"strings"

	"go-selfservice/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextEmployeeID = "employee_id"
	ContextTokenType  = "token_type"
)

// AuthMiddleware verifies an HMAC signed bearer token (or access_token
// cookie) carrying employeeId and type claims.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abort(c, ErrTokenMissing)
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abort(c, ErrTokenExpired)
				return
			}
			abort(c, ErrInvalidToken)
			return
		}

		employeeID, ok := claims["employeeId"].(string)
		if !ok || employeeID == "" {
			abort(c, ErrInvalidToken.WithDetail("employeeId claim is missing"))
			return
		}
		tokenType, ok := claims["type"].(string)
		if !ok || tokenType == "" {
			abort(c, ErrInvalidToken.WithDetail("type claim is missing"))
			return
		}

		c.Set(ContextEmployeeID, employeeID)
		c.Set(ContextTokenType, tokenType)
		c.Request = c.Request.WithContext(contextutil.WithEmployeeID(c.Request.Context(), employeeID))

		c.Next()
	}
}
