package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/admin"
)

// AdminContextKey holds the authenticated admin username.
const AdminContextKey = "admin"

// AdminAuth validates a bearer JWT issued by admin.IssueToken. Browsers
// cannot set headers on WebSocket upgrades, so a token query parameter is
// accepted as well.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := admin.ParseToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(AdminContextKey, claims.Username)
		c.Next()
	}
}
