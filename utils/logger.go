package utils

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(NewLogger("info", "console"))
}

// NewLogger builds a zap logger. format "json" selects the production
// encoder, anything else a coloured console encoder.
func NewLogger(levelStr, format string) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger replaces the process-wide logger. Tests install zaptest loggers here.
func SetLogger(l *zap.Logger) {
	current.Store(l)
}

// L returns the process-wide logger for structured calls.
func L() *zap.Logger {
	return current.Load()
}

func Sync() {
	_ = L().Sync()
}

func Info(format string, a ...interface{}) {
	L().Sugar().Infof(format, a...)
}

func Success(format string, a ...interface{}) {
	L().Sugar().Infof("[OK] "+format, a...)
}

func Warn(format string, a ...interface{}) {
	L().Sugar().Warnf(format, a...)
}

func Error(format string, a ...interface{}) {
	L().Sugar().Errorf(format, a...)
}

func Section(title string) {
	L().Sugar().Infof("══════════ %s ══════════", title)
}
