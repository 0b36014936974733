package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rgehrsitz/rothplan/internal/config"
)

// initializeLogger creates a zap logger from the resolved settings
func initializeLogger(s config.Settings) (*zap.Logger, error) {
	var level zapcore.Level
	switch s.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "", "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", s.LogLevel)
	}

	var cfg zap.Config
	switch s.LogFormat {
	case "", "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", s.LogFormat)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	if s.LogFile != "" {
		if dir := filepath.Dir(s.LogFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}
		file, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", s.LogFile, err)
		}
		_ = file.Close()

		cfg.OutputPaths = []string{s.LogFile}
		cfg.ErrorOutputPaths = []string{s.LogFile}
	}

	return cfg.Build()
}
