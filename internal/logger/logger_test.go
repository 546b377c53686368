package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", "json")
	t.Cleanup(func() { defaultLogger = nil })

	Debug("stroke %d", 1)
	Info("saved %s", "snap")
	Warn("store failed: %v", "disk full")
	Error("boom")

	out := buf.String()
	if strings.Contains(out, "[DEBUG]") || strings.Contains(out, "[INFO]") {
		t.Errorf("messages below warn should be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] store failed: disk full") {
		t.Errorf("missing warn line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] boom") {
		t.Errorf("missing error line in %q", out)
	}
}

func TestTextFormatAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", "text")
	t.Cleanup(func() { defaultLogger = nil })

	Info("hello")
	if !strings.Contains(buf.String(), "logger_test.go") {
		t.Errorf("text format should include the caller file, got %q", buf.String())
	}
}

func TestUninitializedLoggerIsSilent(t *testing.T) {
	defaultLogger = nil
	Debug("ignored")
	Info("ignored")
	Warn("ignored")
	Error("ignored")
}
