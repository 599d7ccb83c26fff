package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/area-weather/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	// HTTPTimeout bounds every outbound provider request.
	HTTPTimeout time.Duration

	// Concurrency is the number of locations resolved in parallel in batch mode.
	Concurrency int
	// TaskTimeout bounds the provider calls of one location (0 = unlimited).
	TaskTimeout time.Duration

	// WatchInterval is the default period of the watch command.
	WatchInterval time.Duration

	Port string

	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
}

// Load reads configuration from the environment (and an optional .env file) with
// sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("openweather_base_url", "")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("batch_concurrency", weather.DefaultConcurrency)
	v.SetDefault("task_timeout", "30s")
	v.SetDefault("watch_interval", "15m")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.AutomaticEnv()

	cfg := &AppConfig{
		OpenWeatherBaseURL: v.GetString("openweather_base_url"),
		Port:               v.GetString("port"),
		LogLevel:           v.GetString("log_level"),
		LogFormat:          v.GetString("log_format"),
	}

	// TOKEN is the variable name used by earlier releases of the CLI.
	cfg.OpenWeatherAPIKey = v.GetString("openweather_api_key")
	if cfg.OpenWeatherAPIKey == "" {
		cfg.OpenWeatherAPIKey = v.GetString("token")
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "http_timeout"); err != nil {
		return nil, err
	}
	if cfg.TaskTimeout, err = duration(v, "task_timeout"); err != nil {
		return nil, err
	}
	if cfg.WatchInterval, err = duration(v, "watch_interval"); err != nil {
		return nil, err
	}

	n, err := strconv.Atoi(v.GetString("batch_concurrency"))
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_CONCURRENCY: %w", err)
	}
	if n < 1 {
		return nil, fmt.Errorf("invalid BATCH_CONCURRENCY: must be at least 1, got %d", n)
	}
	cfg.Concurrency = n

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", strings.ToUpper(key))
	}
	return d, nil
}

// NewLogger creates a slog.Logger writing to w based on the configuration.
func (c *AppConfig) NewLogger(w io.Writer) *slog.Logger {
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

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(c.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
