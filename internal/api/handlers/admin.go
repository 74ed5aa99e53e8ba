package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/admin"
	"github.com/playmatatu/tablegeom/internal/models"
)

// Authenticator checks admin credentials; *admin.Directory implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, plainToken string) (*models.AdminAccount, error)
}

// AdminLogin exchanges an admin username and token for a signed JWT.
func AdminLogin(auth Authenticator, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Username string `json:"username" binding:"required"`
			Token    string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		username := strings.TrimSpace(req.Username)
		acct, err := auth.Authenticate(c.Request.Context(), username, strings.TrimSpace(req.Token))
		if err != nil {
			log.Printf("[ADMIN] Login failed for username %s: %v", username, err)
			respondError(c, "admin login", err)
			return
		}

		token, exp, err := admin.IssueToken(secret, acct.Username, acct.Roles, ttl)
		if err != nil {
			respondError(c, "issue token", err)
			return
		}
		log.Printf("[ADMIN] %s logged in", acct.Username)
		c.JSON(http.StatusOK, gin.H{
			"token":        token,
			"expires_at":   exp,
			"username":     acct.Username,
			"display_name": acct.DisplayName,
		})
	}
}
