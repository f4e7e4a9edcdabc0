package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"taskhub/internal/util"
)

// Store backends selectable at startup.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds the process settings. Every flag falls back to an environment
// variable, then to a built-in default.
type Config struct {
	Addr            string
	Store           string
	DBPath          string
	RedisURL        string
	RedisPrefix     string
	PostgresDSN     string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load parses args (without the program name) and validates the result.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("taskhub", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", util.EnvOrDefault("TASKHUB_ADDR", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.Store, "store", util.EnvOrDefault("TASKHUB_STORE", StoreMemory), "Task store backend: memory, sqlite, redis or postgres")
	fs.StringVar(&cfg.DBPath, "db", util.EnvOrDefault("TASKHUB_DB_PATH", "data/taskhub.db"), "Path to sqlite database file")
	fs.StringVar(&cfg.RedisURL, "redis-url", util.EnvOrDefault("TASKHUB_REDIS_URL", "redis://localhost:6379/0"), "Redis connection URL")
	fs.StringVar(&cfg.RedisPrefix, "redis-prefix", util.EnvOrDefault("TASKHUB_REDIS_PREFIX", "taskhub"), "Prefix for Redis keys")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", util.EnvOrDefault("TASKHUB_POSTGRES_DSN", ""), "PostgreSQL connection string")
	fs.StringVar(&cfg.StaticDir, "static", util.EnvOrDefault("TASKHUB_STATIC_DIR", "web/dist"), "Directory with built frontend")
	fs.StringVar(&cfg.LogLevel, "log-level", util.EnvOrDefault("TASKHUB_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	fs.StringVar(&cfg.LogFormat, "log-format", util.EnvOrDefault("TASKHUB_LOG_FORMAT", "text"), "Log format: text or json")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", util.EnvDurationOrDefault("TASKHUB_SHUTDOWN_TIMEOUT", 10*time.Second), "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return fmt.Errorf("database path cannot be empty for the sqlite store")
		}
	case StoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("redis URL cannot be empty for the redis store")
		}
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("postgres DSN cannot be empty for the postgres store")
		}
	default:
		return fmt.Errorf("invalid store %q: must be memory, sqlite, redis or postgres", c.Store)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout)
	}
	return nil
}

// NewLogger builds the process logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", level)
}
