package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	content := `
canvas:
  width: 1024
  height: 768
  background: "#fafafa"

brush:
  color: "#ff0000"
  size: 8

storage:
  backend: file
  file_path: "./data/test.json"
  max_records: 10

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true
  retry_delay_base: 2s

logging:
  level: "debug"
  format: "json"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Canvas.Width != 1024 || cfg.Canvas.Height != 768 {
		t.Errorf("Unexpected canvas size: %dx%d", cfg.Canvas.Width, cfg.Canvas.Height)
	}
	if cfg.Brush.Color != "#ff0000" || cfg.Brush.Size != 8 {
		t.Errorf("Unexpected brush: %+v", cfg.Brush)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.MaxRecords != 10 {
		t.Errorf("Unexpected storage: %+v", cfg.Storage)
	}
	if cfg.Telegram.RetryDelayBase != 2*time.Second {
		t.Errorf("Unexpected retry delay: %v", cfg.Telegram.RetryDelayBase)
	}

	// Defaults fill what the file leaves out
	if cfg.Telegram.MaxRetries != 3 {
		t.Errorf("Expected default max_retries 3, got %d", cfg.Telegram.MaxRetries)
	}
	if cfg.Export.ThumbnailWidth != 480 {
		t.Errorf("Expected default thumbnail width 480, got %d", cfg.Export.ThumbnailWidth)
	}
	if cfg.Storage.FilePermissions != 0o644 {
		t.Errorf("Expected default file permissions 0644, got %o", cfg.Storage.FilePermissions)
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("NEURODRAW_CANVAS_WIDTH", "320")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Canvas.Width != 320 {
		t.Errorf("env override ignored, width = %d", cfg.Canvas.Width)
	}
	if cfg.Canvas.Height != 600 || cfg.Brush.Size != 5 || cfg.Storage.Backend != "sqlite" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadTelegramFromEnv(t *testing.T) {
	t.Setenv("NEURODRAW_TELEGRAM_ENABLED", "true")
	t.Setenv("NEURODRAW_TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("NEURODRAW_TELEGRAM_CHAT_ID", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Telegram.Enabled || cfg.Telegram.BotToken != "123:abc" || cfg.Telegram.ChatID != "42" {
		t.Errorf("Unexpected telegram config: %+v", cfg.Telegram)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/neurodraw.yaml"); err == nil {
		t.Error("expected error for missing config file")
	}
}

func validConfig() Config {
	return Config{
		Canvas:  CanvasConfig{Width: 800, Height: 600, Background: "#ffffff"},
		Brush:   BrushConfig{Color: "#000000", Size: 5},
		Storage: StorageConfig{Backend: "sqlite", DBPath: "./data/test.db", MaxRecords: 20},
		Export:  ExportConfig{ThumbnailWidth: 480},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero width", func(c *Config) { c.Canvas.Width = 0 }, true},
		{"non-positive brush", func(c *Config) { c.Brush.Size = 0 }, true},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, true},
		{"file backend without path", func(c *Config) { c.Storage.Backend = "file" }, true},
		{"zero retention", func(c *Config) { c.Storage.MaxRecords = 0 }, true},
		{"missing telegram token when enabled", func(c *Config) {
			c.Telegram = TelegramConfig{Enabled: true, ChatID: "1"}
		}, true},
		{"tiny thumbnail", func(c *Config) { c.Export.ThumbnailWidth = 4 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
