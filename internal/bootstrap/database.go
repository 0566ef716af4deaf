package bootstrap

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hostelsmart/portal/internal/config"
	"github.com/hostelsmart/portal/internal/database"
	"github.com/hostelsmart/portal/internal/logger"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB         *sqlx.DB
	Complaints *database.ComplaintsRepository
	Attendance *database.AttendanceRepository
	Users      *database.UsersRepository
}

// SetupDatabase connects to the configured database, applies pending
// migrations, and builds the repositories.
func SetupDatabase(cfg *config.Config, migrationsPath string, log logger.Logger) (*DatabaseComponents, error) {
	log.Info("Connecting to database",
		logger.String("driver", cfg.Database.Driver),
		logger.String("host", cfg.Database.Host),
		logger.String("database", cfg.Database.Database),
	)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if migrationsPath != "" {
		if err := database.RunMigrations(db, cfg.Database.Driver, migrationsPath, log); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	}

	log.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:         db,
		Complaints: database.NewComplaintsRepository(db),
		Attendance: database.NewAttendanceRepository(db),
		Users:      database.NewUsersRepository(db),
	}, nil
}
