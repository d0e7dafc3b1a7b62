package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/Toshiki-Isokawa/Trainora/internal/config"
	"github.com/Toshiki-Isokawa/Trainora/internal/database"
	"github.com/Toshiki-Isokawa/Trainora/internal/routes"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.AppEnv == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// 2. Connect to Database (optional; drafts fall back to memory without it)
	var db *pgxpool.Pool
	if cfg.DBUrl != "" {
		db, err = database.Connect(context.Background(), cfg.DBUrl)
		if err != nil {
			logrus.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logrus.Info("Connected to PostgreSQL")
	}

	// 3. Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(cors.New())
	app.Use(logger.New())
	app.Use(recover.New())

	// Routes
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	routes.RegisterRoutes(app, cfg, db)

	// 4. Start Server
	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
