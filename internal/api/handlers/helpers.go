package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/admin"
	"github.com/playmatatu/tablegeom/internal/codec"
	"github.com/playmatatu/tablegeom/internal/layout"
	"github.com/playmatatu/tablegeom/internal/store"
)

// respondError maps service errors to HTTP statuses. Malformed layouts
// include the failing field so authoring tools can point at it.
func respondError(c *gin.Context, op string, err error) {
	var fe *codec.FormatError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "malformed layout",
			"field":  fe.Field,
			"offset": fe.Offset,
			"reason": fe.Reason,
		})
	case errors.Is(err, codec.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty layout body"})
	case errors.Is(err, layout.ErrInvalidName), errors.Is(err, layout.ErrNoRecord):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrInvalidRim):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, layout.ErrNoAuthoring):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "layout not found"})
	case errors.Is(err, admin.ErrBadCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		log.Printf("[API] %s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
