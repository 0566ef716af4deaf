package bootstrap

import (
	"github.com/hostelsmart/portal/internal/auth"
	"github.com/hostelsmart/portal/internal/config"
	"github.com/hostelsmart/portal/internal/engine"
	"github.com/hostelsmart/portal/internal/logger"
	"github.com/hostelsmart/portal/internal/portal"
)

// Services holds the application-level services.
type Services struct {
	Portal *portal.Service
	Auth   *auth.Service
	Tokens *auth.JWTManager
}

// SetupServices builds the portal and auth services on top of the
// engine and repositories.
func SetupServices(cfg *config.Config, eng *engine.Engine, db *DatabaseComponents, log logger.Logger) *Services {
	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Services{
		Portal: portal.NewService(eng, db.Complaints, db.Attendance, cfg.Attendance.Window, log),
		Auth:   auth.NewService(db.Users, tokens, log),
		Tokens: tokens,
	}
}
