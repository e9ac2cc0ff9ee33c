// Package cli provides common initialization for the fleet binaries.
// cmd/fleet, cmd/fleet-worker and cmd/backfill-spareparts all share the
// same env, logging, config and database bootstrap.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/AhmedElsenosy/car-management-API/internal/config"
	"github.com/AhmedElsenosy/car-management-API/internal/log"
	"github.com/AhmedElsenosy/car-management-API/internal/storage"
)

// SetupLogger initializes structured logging scoped to the given component
// and installs it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitRepository opens the SQLite repository at the given path, running
// migrations. Returns the repository or exits the process on failure.
func InitRepository(logger *log.Logger, dbPath string) *storage.Repository {
	repo, err := storage.NewRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
