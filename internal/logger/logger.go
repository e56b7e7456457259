package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu            sync.RWMutex
	defaultLogger *zap.Logger
)

// Init initializes the global logger
func Init(level string, json bool) error {
	var cfg zap.Config
	if json {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
	return nil
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Get returns the default logger
func Get() *zap.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	if err := Init("info", false); err != nil {
		return zap.NewNop()
	}
	return Get()
}

// Sync flushes buffered entries.
func Sync() {
	_ = Get().Sync()
}

// Info logs at info level
func Info(msg string, args ...any) {
	Get().Sugar().Infow(msg, args...)
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Get().Sugar().Debugw(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Get().Sugar().Warnw(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Get().Sugar().Errorw(msg, args...)
}

// Fatal logs at error level and exits
func Fatal(msg string, args ...any) {
	Get().Sugar().Errorw(msg, args...)
	_ = Get().Sync()
	os.Exit(1)
}

// With returns a logger with the given attributes
func With(args ...any) *zap.Logger {
	return Get().Sugar().With(args...).Desugar()
}
