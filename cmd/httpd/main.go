package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/hostelsmart/portal/internal/api"
	"github.com/hostelsmart/portal/internal/bootstrap"
	"github.com/hostelsmart/portal/internal/logger"
	"github.com/hostelsmart/portal/internal/sentiment"
	"github.com/hostelsmart/portal/internal/server"
	"github.com/hostelsmart/portal/internal/telemetry"
)

const (
	defaultConfigPath     = "config.yml"
	defaultMigrationsPath = "migrations"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := bootstrap.LoadConfig(defaultConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting hostel portal",
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
	)

	db, err := bootstrap.SetupDatabase(cfg, defaultMigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.DB.Close(); closeErr != nil {
			log.Error("Failed to close database", logger.Error(closeErr))
		}
	}()

	provider := telemetry.NewProvider()

	eng, sentimentClient, err := bootstrap.SetupEngine(cfg, provider.Metrics, log)
	if err != nil {
		return err
	}

	services := bootstrap.SetupServices(cfg, eng, db, log)

	handler, err := api.NewHandler(api.HandlerConfig{
		Auth:               services.Auth,
		Portal:             services.Portal,
		Complaints:         db.Complaints,
		Attendance:         db.Attendance,
		Users:              db.Users,
		Metrics:            provider.Metrics,
		RecognizedNetworks: cfg.Attendance.RecognizedNetworks,
		PunchRPS:           float64(cfg.Attendance.PunchRPS),
		PunchBurst:         cfg.Attendance.PunchBurst,
	}, log)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	checks := map[string]server.HealthChecker{
		"database": server.DatabaseHealthChecker(db.DB.Ping),
	}
	if sentimentClient != nil {
		checks["sentiment"] = server.SentimentHealthChecker(sentimentPing(sentimentClient))
	}

	srv := server.New(&server.Config{
		Port:           cfg.Service.Port,
		Debug:          cfg.Service.Debug,
		ReadTimeout:    cfg.Service.ReadTimeout,
		WriteTimeout:   cfg.Service.WriteTimeout,
		IdleTimeout:    cfg.Service.IdleTimeout,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
	}, log, func(router *gin.Engine) {
		server.RegisterHealthRoutes(router, cfg.Service.Name, cfg.Service.Version, checks)
		api.SetupRoutes(router, handler, services.Tokens, provider.Handler())
	})

	return srv.RunWithGracefulShutdown(context.Background())
}

func sentimentPing(client *sentiment.Client) func() error {
	return func() error {
		_, _, err := client.Health(context.Background())
		return err
	}
}
