// Package bootstrap wires configuration, logging, storage, and the
// scoring engine into runnable components.
package bootstrap

import (
	"fmt"
	"log"
	"os"

	"github.com/hostelsmart/portal/internal/config"
	"github.com/hostelsmart/portal/internal/logger"
)

// LoadConfig loads configuration. Uses defaults if the file doesn't exist.
func LoadConfig(path string) (*config.Config, error) {
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg, err := config.LoadWithDefaults(path, (*config.Config).SetDefaults)
	if err != nil {
		log.Printf("Warning: Failed to load config file (%s), using defaults: %v", path, err)
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config) (logger.Logger, error) {
	appLogger, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return appLogger.With(logger.String("service", cfg.Service.Name)), nil
}
