package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/api/handlers"
	"github.com/playmatatu/tablegeom/internal/config"
	"github.com/playmatatu/tablegeom/internal/middleware"
)

// Deps are the services the routes are wired to.
type Deps struct {
	Config  *config.Config
	Layouts handlers.LayoutService
	Admins  handlers.Authenticator
	// Editor serves the editor WebSocket; nil disables the route.
	Editor gin.HandlerFunc
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Deps) {
	cfg := deps.Config
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Layout blobs carry their own ETag; everything else is uncached in dev.
			if c.GetHeader("If-None-Match") == "" {
				c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			}
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled")
	}

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		ttl := time.Duration(cfg.AdminTokenTTLMinutes) * time.Minute
		v1.POST("/admin/login", handlers.AdminLogin(deps.Admins, cfg.JWTSecret, ttl))

		layouts := v1.Group("/layouts")
		{
			layouts.GET("", handlers.ListLayouts(deps.Layouts))
			layouts.GET("/:name", handlers.GetLayoutView(deps.Layouts))
			layouts.GET("/:name/blob", handlers.GetLayoutBlob(deps.Layouts))
			layouts.GET("/:name/authoring", handlers.GetLayoutAuthoring(deps.Layouts))

			auth := middleware.AdminAuth(cfg.JWTSecret)
			layouts.POST("/:name", auth, handlers.UploadLayout(deps.Layouts, cfg.MaxLayoutBytes))
			layouts.DELETE("/:name", auth, handlers.DeleteLayout(deps.Layouts))
		}

		if deps.Editor != nil {
			v1.GET("/editor/:name/ws",
				middleware.WebSocketOriginCheck(cfg),
				middleware.AdminAuth(cfg.JWTSecret),
				deps.Editor)
		}
	}
}
