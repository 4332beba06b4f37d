package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/nbc7/nlw-habits-server/backend/config"
	"github.com/nbc7/nlw-habits-server/backend/middleware"
	"github.com/nbc7/nlw-habits-server/backend/routes"
	"github.com/nbc7/nlw-habits-server/backend/schedule"
	"github.com/nbc7/nlw-habits-server/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Resolve reference timezone
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Error loading timezone %q: %v", cfg.Timezone, err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, schedule.SystemClock{}, loc)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
