package config

import (
	"fmt"
	"strings"
	"time"

	"genealogy-app-go/pkg/logger"
	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" envDefault:"8080"`
	Env         string   `env:"ENV" envDefault:"development"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	DB          DBConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Log         LogConfig
}

type DBConfig struct {
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            string        `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"genealogy"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	MigrationsDir   string        `env:"DB_MIGRATIONS_DIR" envDefault:"migrations"`
}

type RedisConfig struct {
	Enabled     bool          `env:"REDIS_ENABLED" envDefault:"false"`
	URL         string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SnapshotTTL time.Duration `env:"TREE_SNAPSHOT_TTL" envDefault:"5m"`
}

type AuthConfig struct {
	JWTSecret      string `env:"AUTH_JWT_SECRET"`
	JWTIssuer      string `env:"AUTH_JWT_ISSUER"`
	SkipAuth       bool   `env:"AUTH_SKIP" envDefault:"false"`
	MockUserID     int64  `env:"AUTH_MOCK_USER_ID" envDefault:"1"`
	MockUserName   string `env:"AUTH_MOCK_USER_NAME"`
	MockUserAvatar string `env:"AUTH_MOCK_USER_AVATAR_URL"`
	MockSuperAdmin bool   `env:"AUTH_MOCK_SUPER_ADMIN" envDefault:"false"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !c.Auth.SkipAuth && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required unless AUTH_SKIP is set")
	}
	if c.Auth.SkipAuth && c.Auth.MockUserID <= 0 {
		return fmt.Errorf("AUTH_MOCK_USER_ID must be positive")
	}
	return nil
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Log.Level, Format: c.Log.Format, Env: c.Env}
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
