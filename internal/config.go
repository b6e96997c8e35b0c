package internal

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"http_server"`
	Database DatabaseConfig `mapstructure:"database"`
	Security SecurityConfig `mapstructure:"security"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Source          string        `mapstructure:"source"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type SecurityConfig struct {
	EncryptionKey string `mapstructure:"encryption_key"`
	KeyFile       string `mapstructure:"key_file"`
	SessionSecret string `mapstructure:"session_secret"`
	BCryptCost    int    `mapstructure:"bcrypt_cost"`
}

type SessionConfig struct {
	TTL                    time.Duration `mapstructure:"ttl"`
	Issuer                 string        `mapstructure:"issuer"`
	CookieSecure           bool          `mapstructure:"cookie_secure"`
	Store                  string        `mapstructure:"store"`
	LoginAttemptsPerMinute int           `mapstructure:"login_attempts_per_minute"`
	LoginBurst             int           `mapstructure:"login_burst"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// SetDefaults registers every key so environment variables can override it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "payraise-portal")
	v.SetDefault("app.env", "development")

	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.base_url", "http://localhost:8080")
	v.SetDefault("http_server.read_header_timeout", 5*time.Second)
	v.SetDefault("http_server.read_timeout", 15*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.source", "payraise.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)
	v.SetDefault("database.query_timeout", DefaultQueryTimeout)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("security.encryption_key", "")
	v.SetDefault("security.key_file", "instance/payraise.key")
	v.SetDefault("security.session_secret", "")
	v.SetDefault("security.bcrypt_cost", 12)

	v.SetDefault("session.ttl", 8*time.Hour)
	v.SetDefault("session.issuer", "payraise-portal")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("session.store", SessionStoreMemory)
	v.SetDefault("session.login_attempts_per_minute", 10)
	v.SetDefault("session.login_burst", 5)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// ApplyDevDefaults fills a missing session secret outside production. The
// generated secret lives only as long as the process, so sessions end on restart.
func (c *Config) ApplyDevDefaults(logger *slog.Logger) error {
	if c.IsProduction() || c.Security.SessionSecret != "" {
		return nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate session secret: %w", err)
	}
	c.Security.SessionSecret = hex.EncodeToString(buf)
	logger.Warn("security.session_secret is not set; using a random secret, sessions end when the process stops")
	return nil
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Security.Validate(c.IsProduction()); err != nil {
		errs = append(errs, fmt.Sprintf("security config: %v", err))
	}

	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("session config: %v", err))
	}

	if c.Session.Store == SessionStoreRedis && c.Redis.Addr == "" {
		errs = append(errs, "redis config: addr is required when session.store is redis")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d is out of range", c.Port)
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported driver %q", c.Driver)
	}
	if c.Source == "" {
		return errors.New("source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *SecurityConfig) Validate(production bool) error {
	if c.BCryptCost < 4 || c.BCryptCost > 31 {
		return errors.New("bcrypt_cost must be between 4 and 31")
	}
	if c.EncryptionKey == "" && c.KeyFile == "" {
		return errors.New("either encryption_key or key_file is required")
	}
	if production || c.SessionSecret != "" {
		if len(c.SessionSecret) < 32 {
			return errors.New("session_secret must be at least 32 characters")
		}
	}
	return nil
}

func (c *SessionConfig) Validate() error {
	if c.TTL < time.Minute {
		return errors.New("ttl must be at least one minute")
	}
	switch c.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("unsupported store %q", c.Store)
	}
	return nil
}
