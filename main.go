// main.go
package main

import (
	"context"
	"log"
	"time"

	"account-portal/cmd"
	"account-portal/internal/data/repository"
	"account-portal/internal/wire"
	"account-portal/pkg/database"
	"account-portal/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config; fails fast when a required value is missing
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.Bool("registration_enabled", config.App.RegistrationEnabled),
	)

	// Document store handle; connects lazily, warm it up here so a broken
	// URI surfaces at startup instead of on the first request.
	db := database.NewMongo(config.Database, logger)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Ping(pingCtx); err != nil {
		logger.Warn("Document store not reachable yet, will retry on first request", zap.Error(err))
	}
	cancel()
	defer db.Close(context.Background())

	// Initialize repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
