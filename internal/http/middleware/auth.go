// README: Bearer-token auth for the API group.
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	// CtxUserID and CtxRole are the gin context keys populated by Auth.
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth validates the Authorization header as an HMAC-signed JWT and stores
// user_id and role claims on the request context. An empty secret disables
// authentication entirely, which is only meant for local runs.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		raw := c.GetHeader("Authorization")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		raw = strings.TrimPrefix(raw, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		if userID, ok := claims["user_id"].(string); ok {
			c.Set(CtxUserID, userID)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(CtxRole, role)
		}
		c.Next()
	}
}
