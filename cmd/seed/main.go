// Command seed creates a portal user. It is used to provision wardens
// and test students outside the normal registration flow.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hostelsmart/portal/internal/auth"
	"github.com/hostelsmart/portal/internal/bootstrap"
	"github.com/hostelsmart/portal/internal/domain"
	"github.com/hostelsmart/portal/internal/logger"
)

func main() {
	var (
		configPath string
		id         string
		name       string
		role       string
		block      string
		room       string
		password   string
	)

	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.StringVar(&id, "id", "", "Institutional ID (roll number or staff code, required)")
	flag.StringVar(&name, "name", "", "Full name (required)")
	flag.StringVar(&role, "role", "student", "Role: student or admin")
	flag.StringVar(&block, "block", "", "Hostel block, e.g. Aryabhatta-A (required)")
	flag.StringVar(&room, "room", "", "Room number (students)")
	flag.StringVar(&password, "password", "", "Password (or PORTAL_SEED_PASSWORD)")
	flag.Parse()

	if password == "" {
		password = os.Getenv("PORTAL_SEED_PASSWORD")
	}
	if id == "" || name == "" || block == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Error: -id, -name, -block and a password are required")
		os.Exit(1)
	}

	userRole := domain.Role(role)
	if userRole != domain.RoleStudent && userRole != domain.RoleAdmin {
		fmt.Fprintf(os.Stderr, "Error: unknown role %q\n", role)
		os.Exit(1)
	}

	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	db, err := bootstrap.SetupDatabase(cfg, "migrations", log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Error("Failed to hash password", logger.Error(err))
		os.Exit(1)
	}

	user := &domain.User{
		ID:           id,
		Name:         name,
		Role:         userRole,
		HostelBlock:  block,
		RoomNumber:   room,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := db.Users.Create(context.Background(), user); err != nil {
		log.Error("Failed to create user", logger.Error(err))
		os.Exit(1)
	}

	log.Info("User created",
		logger.String("id", user.ID),
		logger.String("role", string(user.Role)),
		logger.String("block", user.HostelBlock),
	)
}
