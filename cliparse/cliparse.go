package cliparse

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port                int           `env:"PORT,default=3318"`
	DatabaseURL         string        `env:"DATABASE_URL,default=toasty-votes.db"`
	DatabaseType        string        `env:"DATABASE_TYPE,default=sqlite"`
	TokenSecret         string        `env:"TOKEN_SECRET"`
	SessionTTL          time.Duration `env:"SESSION_TTL,default=24h"`
	DefaultSessionTitle string        `env:"DEFAULT_SESSION_TITLE,default=Toastmasters Vote"`
	LogLevel            string        `env:"LOG_LEVEL,default=info"`
	LogFormat           string        `env:"LOG_FORMAT,default=text"`
	AllowedOrigins      []string      `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RateLimitPerMinute  int           `env:"RATE_LIMIT_PER_MINUTE,default=100"`
	NATSURL             string        `env:"NATS_URL"`
	OTLPEndpoint        string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Args holds positional arguments left after flag parsing
	Args []string
}

// ParseFlags loads env defaults then applies CLI flags on top.
// extra registers command-specific flags on the same flag set.
func ParseFlags(args []string, extra ...func(*flag.FlagSet)) (Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid environment: %w", err)
	}

	fs := flag.NewFlagSet("toasty-votes", flag.ContinueOnError)

	// Network and storage (env values become the flag defaults)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL or SQLite file path")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Bearer token secret (prefer env)")

	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Voting session lifetime")
	fs.StringVar(&cfg.DefaultSessionTitle, "default-title", cfg.DefaultSessionTitle, "Title used when a session is created without one")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text or json)")

	for _, register := range extra {
		register(fs)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Args = fs.Args()

	cfg.DatabaseType = strings.ToLower(cfg.DatabaseType)
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, errors.New("invalid port")
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	return cfg, nil
}

// RequireTokenSecret fails when no token secret was configured
func (c Config) RequireTokenSecret() error {
	if c.TokenSecret == "" {
		return errors.New("TOKEN_SECRET required")
	}
	return nil
}

// NewLogger builds the slog logger described by LogLevel and LogFormat
func (c Config) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
