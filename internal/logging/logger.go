package logging

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerKey struct{}
type traceIDKey struct{}

const requestID = "request_id"

type Logger struct {
	l *zap.Logger
}

func New(zapLogger *zap.Logger) *Logger {
	return &Logger{zapLogger}
}

// NewProduction builds a JSON logger at the given level ("debug", "info", ...).
func NewProduction(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	zl, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return New(zl), nil
}

// NewNop returns a logger that discards everything. Used in tests.
func NewNop() *Logger {
	return New(zap.NewNop())
}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func GetFromContext(ctx context.Context) (*Logger, bool) {
	logger, ok := ctx.Value(loggerKey{}).(*Logger)
	return logger, ok
}

// FromContext falls back to fallback when ctx carries no logger.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if logger, ok := GetFromContext(ctx); ok {
		return logger
	}
	return fallback
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func GetTraceID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceIDKey{}).(string)
	return id, ok && id != ""
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, fieldsWithTraceID(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, fieldsWithTraceID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, fieldsWithTraceID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, fieldsWithTraceID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, fieldsWithTraceID(ctx, fields)...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func fieldsWithTraceID(ctx context.Context, fields []zap.Field) []zap.Field {
	if traceID, ok := GetTraceID(ctx); ok {
		fields = append(fields, zap.String(requestID, traceID))
	}
	return fields
}
