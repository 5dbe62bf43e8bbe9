package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_ENV"` specify the environment variable name.
// `default:""` provides a default value if the env var is not set.
// `required:"true"` makes an environment variable mandatory.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`      // debug, info, warn, error
	LogFormat  string `envconfig:"LOG_FORMAT" default:""`         // json, console; empty picks by APP_ENV
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Postgres   PostgresConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port           string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	BasePath       string        `envconfig:"HTTP_SERVER_BASE_PATH" default:"/api"`
	TimeoutRead    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite   time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	TimeoutRequest time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_REQUEST" default:"60s"`
}

// GrpcServerConfig holds settings for the gRPC health endpoint.
type GrpcServerConfig struct {
	Enabled bool   `envconfig:"GRPC_SERVER_ENABLED" default:"true"`
	Port    string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// PostgresConfig holds PostgreSQL database connection details.
type PostgresConfig struct {
	Host            string        `envconfig:"POSTGRES_HOST" required:"true"`
	Port            string        `envconfig:"POSTGRES_PORT" default:"5432"`
	User            string        `envconfig:"POSTGRES_USER" required:"true"`
	Password        string        `envconfig:"POSTGRES_PASSWORD" required:"true"`
	DBName          string        `envconfig:"POSTGRES_DBNAME" required:"true"`
	SSLMode         string        `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"POSTGRES_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"POSTGRES_CONN_MAX_LIFETIME" default:"30m"`
}

// DSN constructs the postgres:// connection URL. net/url escapes the credentials.
func (pc *PostgresConfig) DSN() string {
	return pc.url(url.UserPassword(pc.User, pc.Password)).String()
}

// Redacted returns the connection URL with the password masked, safe for logs.
func (pc *PostgresConfig) Redacted() string {
	return pc.url(url.UserPassword(pc.User, "xxxxx")).String()
}

func (pc *PostgresConfig) url(user *url.Userinfo) *url.URL {
	u := &url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   net.JoinHostPort(pc.Host, pc.Port),
		Path:   "/" + pc.DBName,
	}
	if pc.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{pc.SSLMode}}.Encode()
	}
	return u
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads an optional env file and then processes environment variables.
// A missing env file is not an error; the process environment is used as-is.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}

	switch cfg.AppEnv {
	case "development", "staging", "production":
	default:
		return nil, fmt.Errorf("invalid APP_ENV: %s", cfg.AppEnv)
	}
	cfg.HttpServer.BasePath = strings.TrimRight(cfg.HttpServer.BasePath, "/")
	if cfg.HttpServer.BasePath == "" || cfg.HttpServer.BasePath[0] != '/' {
		return nil, fmt.Errorf("invalid HTTP_SERVER_BASE_PATH: %q must start with /", cfg.HttpServer.BasePath)
	}

	return &cfg, nil
}
