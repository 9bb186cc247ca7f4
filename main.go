package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stataid/adapters/httpapi"
	"stataid/internal/config"
	"stataid/internal/container"
	"stataid/internal/logging"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	appConfig, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(appConfig.Log.Level, appConfig.Log.Format)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		logger.Fatal("failed to create application container", zap.Error(err))
	}
	defer appContainer.Shutdown(context.Background())

	db, err := container.OpenDatabase(appConfig)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	if db != nil {
		if err := appContainer.InitWithDatabase(context.Background(), db); err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
	} else {
		logger.Info("DATABASE_URL not set; answers are not persisted")
	}

	server := httpapi.NewServer(appContainer.Advisor, appContainer.Reader, logger)
	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
