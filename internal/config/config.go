package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int     `envconfig:"PORT" default:"8080"`
	DatabaseURL    string  `envconfig:"DATABASE_URL"`
	DataDir        string  `envconfig:"DATA_DIR" default:"./data/drawings"`
	JWTSecret      string  `envconfig:"JWT_SECRET"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	HandleSize     float64 `envconfig:"HANDLE_SIZE" default:"8"`
	CanvasWidth    float64 `envconfig:"CANVAS_WIDTH" default:"1280"`
	CanvasHeight   float64 `envconfig:"CANVAS_HEIGHT" default:"720"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	Autosave       bool    `envconfig:"AUTOSAVE" default:"true"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.HandleSize <= 0 {
		return nil, fmt.Errorf("HANDLE_SIZE must be positive, got %v", cfg.HandleSize)
	}
	if cfg.CanvasWidth <= 0 || cfg.CanvasHeight <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %vx%v", cfg.CanvasWidth, cfg.CanvasHeight)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
