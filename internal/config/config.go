package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/slidestream/internal/parser"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// Request limits
	MaxChunkBytes int64

	// Parser behavior. The zero value keeps the open-section preview on.
	DisablePreview bool
	MarkdownInline bool
	ChunkMode      parser.ChunkMode

	LogLevel slog.Level
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("SLIDESTREAM_API_KEY"),

		SessionTTL:  envDuration("SESSION_TTL", 30*time.Minute),
		MaxSessions: envInt("MAX_SESSIONS", 1000),

		MaxChunkBytes: envInt64("MAX_CHUNK_BYTES", 1048576), // 1MB

		DisablePreview: envBool("DISABLE_PREVIEW", false),
		MarkdownInline: envBool("MARKDOWN_INLINE", false),
		ChunkMode:      envMode("CHUNK_MODE", parser.ModeAuto),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 1000
	}
	if cfg.MaxChunkBytes <= 0 {
		cfg.MaxChunkBytes = 1048576
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SLIDESTREAM_API_KEY is required")
	}
	return nil
}

// ParserOptions returns the parser settings every session starts from.
func (c Config) ParserOptions(log *slog.Logger) parser.Options {
	return parser.Options{
		Logger:         log,
		Mode:           c.ChunkMode,
		DisablePreview: c.DisablePreview,
		MarkdownInline: c.MarkdownInline,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envMode(key string, fallback parser.ChunkMode) parser.ChunkMode {
	if v := os.Getenv(key); v != "" {
		return parser.ParseChunkMode(strings.ToLower(strings.TrimSpace(v)))
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.TrimSpace(v))); err == nil {
			return lvl
		}
	}
	return fallback
}
