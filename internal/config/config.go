package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("missing required setting")

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	JWTSecret   string

	AdminUsername string
	AdminPassword string

	GeminiAPIKey string
	GeminiModel  string

	WACloudToken    string
	WAPhoneNumberID string
	WAVerifyToken   string
	WADevicesDir    string

	TelegramBotToken string
	TelegramBusiness string

	TemplatesDir  string
	StateCacheTTL time.Duration
	InboundRate   float64 // messages per second per conversation
	InboundBurst  int

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		HTTPAddr:         getenvDefault("HTTP_ADDR", ":8080"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		AdminUsername:    getenvDefault("ADMIN_USERNAME", "admin"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		WACloudToken:     os.Getenv("WA_CLOUD_TOKEN"),
		WAPhoneNumberID:  os.Getenv("WA_PHONE_NUMBER_ID"),
		WAVerifyToken:    os.Getenv("WA_VERIFY_TOKEN"),
		WADevicesDir:     getenvDefault("WA_DEVICES_DIR", "./devices"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramBusiness: os.Getenv("TELEGRAM_BUSINESS"),
		TemplatesDir:     os.Getenv("TEMPLATES_DIR"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		LogFormat:        getenvDefault("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.StateCacheTTL, err = time.ParseDuration(getenvDefault("STATE_CACHE_TTL", "30m")); err != nil {
		return nil, fmt.Errorf("STATE_CACHE_TTL: %w", err)
	}
	if cfg.InboundRate, err = strconv.ParseFloat(getenvDefault("INBOUND_RATE", "1"), 64); err != nil {
		return nil, fmt.Errorf("INBOUND_RATE: %w", err)
	}
	if cfg.InboundBurst, err = strconv.Atoi(getenvDefault("INBOUND_BURST", "5")); err != nil {
		return nil, fmt.Errorf("INBOUND_BURST: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET", ErrMissingSetting)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
