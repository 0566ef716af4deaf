package config

import (
	"time"

	"github.com/hostelsmart/portal/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName    = "hostel-portal"
	defaultServiceVersion = "1.0.0"
	defaultServicePort    = 8080
	defaultDBDriver       = "postgres"
	defaultDBHost         = "localhost"
	defaultDBPort         = 5432
	defaultDBUser         = "postgres"
	defaultDBName         = "hostel_portal"
	defaultDBSSLMode      = "disable"
	defaultDBMaxConns     = 25
	defaultDBMaxIdleConns = 5
	defaultDBConnLifetime = 5 * time.Minute
	defaultSQLitePath     = "hostel_portal.db"
	defaultTokenTTL       = 12 * time.Hour
	defaultSentimentTO    = 5 * time.Second
	defaultPunchWindow    = 24 * time.Hour
	defaultPunchRPS       = 5
	defaultPunchBurst     = 10
	defaultReadTimeout    = 30 * time.Second
	defaultWriteTimeout   = 60 * time.Second
	defaultIdleTimeout    = 120 * time.Second
)

// Config holds all configuration for the portal service.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Sentiment  SentimentConfig  `yaml:"sentiment"`
	Attendance AttendanceConfig `yaml:"attendance"`
	Logging    logger.Config    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	Port         int           `env:"PORTAL_PORT" yaml:"port"`
	Debug        bool          `env:"APP_DEBUG"   yaml:"debug"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// DatabaseConfig holds database configuration.
// Driver is "postgres" for deployments and "sqlite" for local development.
type DatabaseConfig struct {
	Driver          string        `env:"DB_DRIVER"         yaml:"driver"`
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	SQLitePath      string        `env:"SQLITE_PATH"       yaml:"sqlite_path"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// SentimentConfig holds configuration for the external sentiment service.
// When disabled the engine runs without the optional sentiment signal.
type SentimentConfig struct {
	Enabled bool          `env:"SENTIMENT_ENABLED" yaml:"enabled"`
	URL     string        `env:"SENTIMENT_URL"     yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// AttendanceConfig holds attendance verification configuration.
type AttendanceConfig struct {
	// RecognizedNetworks are CIDR prefixes of the hostel gateway.
	// Punches from addresses outside these ranges fail network membership.
	RecognizedNetworks []string `env:"HOSTEL_NETWORKS" yaml:"recognized_networks"`
	// Window bounds how far back the anomaly detector looks for punches.
	Window time.Duration `yaml:"window"`
	// PunchRPS and PunchBurst rate-limit punch attempts.
	PunchRPS   int `yaml:"punch_rps"`
	PunchBurst int `yaml:"punch_burst"`
}

// SetDefaults applies default values for all config sections.
func (c *Config) SetDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Service.Version == "" {
		c.Service.Version = defaultServiceVersion
	}
	if c.Service.Port == 0 {
		c.Service.Port = defaultServicePort
	}
	if c.Service.ReadTimeout == 0 {
		c.Service.ReadTimeout = defaultReadTimeout
	}
	if c.Service.WriteTimeout == 0 {
		c.Service.WriteTimeout = defaultWriteTimeout
	}
	if c.Service.IdleTimeout == 0 {
		c.Service.IdleTimeout = defaultIdleTimeout
	}

	if c.Database.Driver == "" {
		c.Database.Driver = defaultDBDriver
	}
	if c.Database.Host == "" {
		c.Database.Host = defaultDBHost
	}
	if c.Database.Port == 0 {
		c.Database.Port = defaultDBPort
	}
	if c.Database.User == "" {
		c.Database.User = defaultDBUser
	}
	if c.Database.Database == "" {
		c.Database.Database = defaultDBName
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = defaultDBSSLMode
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = defaultSQLitePath
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = defaultDBMaxConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaultDBMaxIdleConns
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = defaultDBConnLifetime
	}

	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = defaultTokenTTL
	}

	if c.Sentiment.Timeout == 0 {
		c.Sentiment.Timeout = defaultSentimentTO
	}

	if c.Attendance.Window == 0 {
		c.Attendance.Window = defaultPunchWindow
	}
	if c.Attendance.PunchRPS == 0 {
		c.Attendance.PunchRPS = defaultPunchRPS
	}
	if c.Attendance.PunchBurst == 0 {
		c.Attendance.PunchBurst = defaultPunchBurst
	}

	c.Logging.SetDefaults()
}
