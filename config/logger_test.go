package config

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zapcore.Level
	}{
		{"debug", zap.DebugLevel},
		{"info", zap.InfoLevel},
		{"", zap.InfoLevel},
		{"WARN", zap.WarnLevel},
		{"warning", zap.WarnLevel},
		{"error", zap.ErrorLevel},
		{" Error ", zap.ErrorLevel},
		{"nonsense", zap.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.raw); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestInitLoggerBuilds(t *testing.T) {
	logger, err := InitLogger("debug")
	if err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	if logger == nil {
		t.Fatal("InitLogger returned nil logger")
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("debug level not enabled")
	}
}
