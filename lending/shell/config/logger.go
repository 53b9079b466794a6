package config

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

var (
	_ shell.Logger           = (*LoggerAdapter)(nil)
	_ shell.ContextualLogger = (*LoggerAdapter)(nil)
)

// NewZapLogger builds a named zap logger, JSON encoded unless the console format is configured.
func NewZapLogger(cfg Log, name string) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.Level = zap.NewAtomicLevelAt(cfg.Level)
	zapConfig.EncoderConfig.TimeKey = "time"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.DisableStacktrace = cfg.Level > zapcore.DebugLevel

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.Named(name), nil
}

// LoggerAdapter exposes a zap logger through the shell Logger and ContextualLogger interfaces.
// Arguments are alternating keys and values, as with slog.
type LoggerAdapter struct {
	sugar *zap.SugaredLogger
}

// NewLoggerAdapter wraps a zap logger.
func NewLoggerAdapter(logger *zap.Logger) *LoggerAdapter {
	return &LoggerAdapter{sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *LoggerAdapter) Debug(msg string, args ...any) {
	a.sugar.Debugw(msg, args...)
}

func (a *LoggerAdapter) Info(msg string, args ...any) {
	a.sugar.Infow(msg, args...)
}

func (a *LoggerAdapter) Warn(msg string, args ...any) {
	a.sugar.Warnw(msg, args...)
}

func (a *LoggerAdapter) Error(msg string, args ...any) {
	a.sugar.Errorw(msg, args...)
}

func (a *LoggerAdapter) DebugContext(ctx context.Context, msg string, args ...any) {
	a.sugar.Debugw(msg, withRequestID(ctx, args)...)
}

func (a *LoggerAdapter) InfoContext(ctx context.Context, msg string, args ...any) {
	a.sugar.Infow(msg, withRequestID(ctx, args)...)
}

func (a *LoggerAdapter) WarnContext(ctx context.Context, msg string, args ...any) {
	a.sugar.Warnw(msg, withRequestID(ctx, args)...)
}

func (a *LoggerAdapter) ErrorContext(ctx context.Context, msg string, args ...any) {
	a.sugar.Errorw(msg, withRequestID(ctx, args)...)
}

func withRequestID(ctx context.Context, args []any) []any {
	requestID, ok := shell.RequestIDFromContext(ctx)
	if !ok {
		return args
	}

	extended := make([]any, 0, len(args)+2)
	extended = append(extended, args...)

	return append(extended, shell.LogAttrRequestID, requestID)
}
