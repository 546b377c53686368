// Package config loads neurodraw settings from a YAML file with environment
// overrides (NEURODRAW_ prefix).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Canvas   CanvasConfig   `mapstructure:"canvas"`
	Brush    BrushConfig    `mapstructure:"brush"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// CanvasConfig holds drawing surface dimensions
type CanvasConfig struct {
	Width      int    `mapstructure:"width"`
	Height     int    `mapstructure:"height"`
	Background string `mapstructure:"background"`
}

// BrushConfig holds the initial brush state
type BrushConfig struct {
	Color string  `mapstructure:"color"`
	Size  float64 `mapstructure:"size"`
}

// StorageConfig holds snapshot persistence configuration
type StorageConfig struct {
	Backend         string      `mapstructure:"backend"`
	DBPath          string      `mapstructure:"db_path"`
	FilePath        string      `mapstructure:"file_path"`
	MaxRecords      int         `mapstructure:"max_records"`
	FilePermissions os.FileMode `mapstructure:"file_permissions"`
	DirPermissions  os.FileMode `mapstructure:"dir_permissions"`
}

// TelegramConfig holds snapshot sharing configuration
type TelegramConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// ExportConfig holds PDF report settings
type ExportConfig struct {
	ThumbnailWidth int `mapstructure:"thumbnail_width"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// An empty path skips the file and uses defaults plus environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("NEURODRAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Canvas defaults
	v.SetDefault("canvas.width", 800)
	v.SetDefault("canvas.height", 600)
	v.SetDefault("canvas.background", "#ffffff")

	// Brush defaults
	v.SetDefault("brush.color", "#000000")
	v.SetDefault("brush.size", 5)

	// Storage defaults
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.db_path", "./data/neurodraw.db")
	v.SetDefault("storage.file_path", "./data/neurodraw.json")
	v.SetDefault("storage.max_records", 20)
	v.SetDefault("storage.file_permissions", 0o644)
	v.SetDefault("storage.dir_permissions", 0o755)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("export.thumbnail_width", 480)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Canvas.Width < 1 || c.Canvas.Height < 1 {
		return fmt.Errorf("canvas.width and canvas.height must be at least 1")
	}
	if c.Canvas.Background == "" {
		return fmt.Errorf("canvas.background is required")
	}

	if c.Brush.Color == "" {
		return fmt.Errorf("brush.color is required")
	}
	if c.Brush.Size <= 0 {
		return fmt.Errorf("brush.size must be positive")
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path is required for the sqlite backend")
		}
	case "file":
		if c.Storage.FilePath == "" {
			return fmt.Errorf("storage.file_path is required for the file backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of: sqlite, file")
	}
	if c.Storage.MaxRecords < 1 {
		return fmt.Errorf("storage.max_records must be at least 1")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}
	if c.Telegram.MaxRetries < 0 {
		return fmt.Errorf("telegram.max_retries must not be negative")
	}

	if c.Export.ThumbnailWidth < 16 {
		return fmt.Errorf("export.thumbnail_width must be at least 16")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
