package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"forum/backend/config"
	"forum/backend/routes"
	"forum/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		EnableColors: cfg.LogFormat != "json",
	})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatalf("Error migrating database: %v", err)
	}
	if cfg.SeedData {
		if err := utils.Seed(db); err != nil {
			logger.Fatalf("Error seeding database: %v", err)
		}
		logger.Println("Seed data loaded")
	}

	app := routes.NewApp(db, cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Println("Shutting down gracefully, press Ctrl+C again to force")
		stop()

		if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
			logger.Printf("Server forced to shutdown with error: %v", err)
		}
	}()

	logger.Printf("Starting server on :%s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Printf("Server stopped with error: %v", err)
	}

	if err := utils.CloseDB(db); err != nil {
		logger.Printf("Error closing database connection pool: %v", err)
	}
	logger.Println("Server exiting")
}
