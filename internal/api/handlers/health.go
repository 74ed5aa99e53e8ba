package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/codec"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"service":         "tablegeom-api",
		"version":         version,
		"layout_versions": codec.SupportedVersions(),
		"uptime":          time.Since(startTime).String(),
	})
}
