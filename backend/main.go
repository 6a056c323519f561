package main

import (
	"log"

	"tms/backend/cache"
	"tms/backend/config"
	"tms/backend/middleware"
	"tms/backend/routes"
	"tms/backend/store"
	"tms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database (users and, with STORE_BACKEND=db, course data)
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.MigrateAuthTables(db); err != nil {
		log.Fatalf("Error migrating auth tables: %v", err)
	}

	// Select the data store behind the API
	var st store.RemoteStore
	switch cfg.StoreBackend {
	case "file":
		st, err = store.NewFileStore(cfg.DataFile)
	default:
		st, err = store.NewGormStore(db)
	}
	if err != nil {
		log.Fatalf("Error initializing store: %v", err)
	}

	// Optional Redis-backed refresh tokens
	var tokens *cache.TokenCache
	if cfg.RedisAddr != "" {
		tokens = cache.NewTokenCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, st, tokens, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
