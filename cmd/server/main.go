package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/playmatatu/tablegeom/internal/admin"
	"github.com/playmatatu/tablegeom/internal/api"
	"github.com/playmatatu/tablegeom/internal/config"
	"github.com/playmatatu/tablegeom/internal/database"
	"github.com/playmatatu/tablegeom/internal/layout"
	"github.com/playmatatu/tablegeom/internal/migrations"
	"github.com/playmatatu/tablegeom/internal/redis"
	"github.com/playmatatu/tablegeom/internal/store"
	"github.com/playmatatu/tablegeom/internal/ws"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	cache := redis.NewLayoutCache(rdb, time.Duration(cfg.LayoutCacheTTLSeconds)*time.Second)
	svc := layout.NewService(store.NewRepository(db), cache, cfg.MaxLayoutBytes)

	// Editor sessions follow layout changes made on other instances
	hub := ws.NewHub(svc)
	go hub.RelayEvents(context.Background(), cache.Subscribe(context.Background()))

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	api.SetupRoutes(router, api.Deps{
		Config:  cfg,
		Layouts: svc,
		Admins:  admin.NewDirectory(db),
		Editor:  hub.HandleEditor,
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting tablegeom server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
