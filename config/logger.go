package config

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

// InitLogger builds the process-wide Zap logger at the given level. The
// level string comes straight from LOG_LEVEL, so unknown values fall back to
// info rather than failing bootstrap. LOG_JSON switches to production JSON
// encoding for containerized deployments.
func InitLogger(logLevelStr string) (*zap.Logger, error) {
	// The logger comes up before viper, so the encoding switch reads the
	// environment directly.
	cfg := zap.NewDevelopmentConfig()
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_JSON")), "true") {
		cfg = zap.NewProductionConfig()
	}

	cfg.Level = zap.NewAtomicLevelAt(parseLevel(logLevelStr))

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	// Kept for Cleanup to sync at shutdown.
	globalLogger = logger

	return logger, nil
}

func parseLevel(raw string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return zap.DebugLevel
	case "info", "":
		return zap.InfoLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	if globalLogger != nil {
		globalLogger.Sync()
	}
}
