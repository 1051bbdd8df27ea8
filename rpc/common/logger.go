// Package common provides logging utilities for the application
package common

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

var (
	loggerMu   sync.Mutex
	rootLogger *zap.Logger
	logLevel   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// GetLogger returns a named logger. All loggers share one root so that
// SetLogLevel applies globally; the name shows up as the zap logger name
// (e.g. "transport/mesh", "assembler").
func GetLogger(name string) *zap.SugaredLogger {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	if rootLogger == nil {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = logLevel
		cfg.DisableStacktrace = true
		logger, err := cfg.Build()
		if err != nil {
			panic(fmt.Sprintf("failed to build logger: %v", err))
		}
		rootLogger = logger
	}

	return rootLogger.Named(name).Sugar()
}

// SetLogLevel configures the level of every logger created by GetLogger.
func SetLogLevel(level string) error {
	parsed, err := parseLogLevel(level)
	if err != nil {
		return err
	}
	logLevel.SetLevel(parsed)
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseLogLevel converts a string level to a zap level
func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}
