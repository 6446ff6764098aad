package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string

	// Format is the output format (json or text)
	Format Format

	// Level is the minimum log level
	Level Level

	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64

	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// ZapLogger implements Logger on top of a zap logger
type ZapLogger struct {
	zl     *zap.Logger
	closer io.Closer
}

// NewFileLogger creates a logger writing to a size-rotated file
func NewFileLogger(config FileLoggerConfig) (*ZapLogger, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sink, err := openRotatingFile(config.Path, config.MaxSize, config.MaxBackups)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(config.Format), sink, zapLevel(config.Level))
	return &ZapLogger{zl: zap.New(core), closer: sink}, nil
}

// NewConsoleLogger creates a logger writing to w, typically stderr
func NewConsoleLogger(w io.Writer, format Format, level Level) *ZapLogger {
	core := zapcore.NewCore(newEncoder(format), zapcore.AddSync(w), zapLevel(level))
	return &ZapLogger{zl: zap.New(core)}
}

// NewNullLogger creates a logger that discards all output.
// Used when logging is disabled.
func NewNullLogger() *ZapLogger {
	return &ZapLogger{zl: zap.NewNop()}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.zl.Debug(msg, zapFields(fields)...)
}

// Info logs an info message
func (l *ZapLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.zl.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.zl.Warn(msg, zapFields(fields)...)
}

// Error logs an error message
func (l *ZapLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.zl.Error(msg, zf...)
}

// WithFields returns a logger with additional fields.
// The derived logger shares the parent's output.
func (l *ZapLogger) WithFields(fields Fields) Logger {
	return &ZapLogger{zl: l.zl.With(zapFields(fields)...), closer: l.closer}
}

// Close flushes and closes the logger
func (l *ZapLogger) Close() error {
	// Sync on a console sink returns EINVAL for ttys; only file sinks report it.
	syncErr := l.zl.Sync()
	if l.closer == nil {
		return nil
	}
	if err := l.closer.Close(); err != nil {
		return err
	}
	return syncErr
}

func newEncoder(format Format) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == FormatJSON {
		return zapcore.NewJSONEncoder(cfg)
	}
	return zapcore.NewConsoleEncoder(cfg)
}

func zapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapFields converts Fields in key order so output is stable
func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
