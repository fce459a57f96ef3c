// internal/api/middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys populated by BearerAuth.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
)

// BearerAuth validates the bearer credential issued by the external auth
// collaborator and exposes the acting user's id and role on the request
// context. The core trusts these claims as given; identity is not
// re-validated downstream.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if sub, err := claims.GetSubject(); err == nil {
			c.Set(ContextUserID, sub)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(ContextRole, role)
		}

		c.Next()
	}
}

// ActorID returns the authenticated user id, if any.
func ActorID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
