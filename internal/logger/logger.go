// Package logger wraps zap's sugared logger behind the small surface the
// oramstore binaries need.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the logging environment, either "development" (debug level
// and up) or "production" (info and up), and an optional log file written in
// addition to stderr.
type Config struct {
	Environment string `toml:"env"`
	Path        string `toml:"path,omitempty"`
}

// Logger wraps a zap.SugaredLogger.
type Logger struct {
	z *zap.SugaredLogger
}

// New builds a Logger from conf. An empty environment defaults to
// production.
func New(conf Config) (*Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if strings.EqualFold(conf.Environment, "development") {
		level.SetLevel(zap.DebugLevel)
	}

	outputs := []string{"stderr"}
	if conf.Path != "" {
		outputs = append(outputs, conf.Path)
	}

	zc := zap.Config{
		Level:             level,
		Encoding:          "console",
		DisableStacktrace: true,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			MessageKey:     "msg",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths: outputs,
	}
	z, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{z.Sugar()}, nil
}

// Debug logs at debug level with key-value context.
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.z.Debugw(msg, keysAndValues...)
}

// Info logs at info level with key-value context.
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.z.Infow(msg, keysAndValues...)
}

// Warn logs at warn level with key-value context.
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.z.Warnw(msg, keysAndValues...)
}

// Error logs at error level with key-value context.
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.z.Errorw(msg, keysAndValues...)
}

// Fatal logs at fatal level and exits.
func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.z.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}
