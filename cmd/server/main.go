package main

import (
	"os"

	"github.com/bazarbekovic131/wahr-chatbot/internal/config"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("WAHR_CONFIG"))
	if err != nil {
		panic(err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	// Setup and start server
	srv, err := SetupServer(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
