package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "auth.principal"

// Require returns gin middleware that validates the Authorization bearer
// token and attaches the principal to the context. When roles are given,
// the principal's role must be one of them.
func Require(secret string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token provided, authorization denied"})
			return
		}

		claims, err := ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is not valid"})
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
			return
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// PrincipalFrom returns the claims set by Require, or nil when the request
// was not authenticated.
func PrincipalFrom(c *gin.Context) *Claims {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
