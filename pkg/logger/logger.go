package logger

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger
type Logger struct {
	*zap.Logger
}

type options struct {
	entryCounter *prometheus.CounterVec
}

// Option customizes logger construction.
type Option func(*options)

// WithEntryCounter counts every written entry by level on counter.
func WithEntryCounter(counter *prometheus.CounterVec) Option {
	return func(o *options) {
		o.entryCounter = counter
	}
}

// New creates a new logger instance
func New(level, encoding string, opts ...Option) (*Logger, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var config zap.Config

	if encoding == "console" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else { // default to json
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.LevelKey = "level"
		config.EncoderConfig.MessageKey = "msg"
		config.EncoderConfig.CallerKey = "caller"
		config.EncoderConfig.StacktraceKey = "stacktrace"
		config.EncoderConfig.NameKey = "logger"
	}

	logLevel := zap.NewAtomicLevel()
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	config.Level = logLevel

	buildOpts := []zap.Option{zap.AddCallerSkip(1)}
	if o.entryCounter != nil {
		buildOpts = append(buildOpts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return NewCountingCore(core, o.entryCounter)
		}))
	}

	logger, err := config.Build(buildOpts...)
	if err != nil {
		return nil, err
	}

	return &Logger{logger}, nil
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{zap.NewNop()}
}

// With creates a child logger with the given fields
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l.Logger.With(fields...)}
}

// FromContext retrieves a logger from context if it exists, or returns the default logger
func (l *Logger) FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	loggerFromCtx, ok := ctx.Value(loggerContextKey).(*Logger)
	if !ok || loggerFromCtx == nil {
		return l
	}

	return loggerFromCtx
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.Logger.Debug(msg, fields...)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.Logger.Info(msg, fields...)
}

// InfoContext logs an info message with context
func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.FromContext(ctx).Info(msg, fields...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.Logger.Warn(msg, fields...)
}

// WarnContext logs a warning message with context
func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.FromContext(ctx).Warn(msg, fields...)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.Logger.Error(msg, fields...)
}

// ErrorContext logs an error message with context
func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.FromContext(ctx).Error(msg, fields...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}

// StringField creates a zap.Field with string value
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField creates a zap.Field with int value
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// FloatField creates a zap.Field with float64 value
func FloatField(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// ErrorField creates a zap.Field with error value
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}

type contextKey string

const loggerContextKey contextKey = "logger"

// NewContext creates a new context with the logger
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}
