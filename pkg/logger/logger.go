// Package logger is the zap-backed structured logger shared by logoctl, the
// gateway, the Logo transport and the mirror. Loggers travel in the context so
// request and trace ids from the gateway reach the outbound API calls.
package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appctx "logoobjects/internal/core/context"
)

// Logger wraps zap.SugaredLogger.
type Logger struct {
	*zap.SugaredLogger
}

type loggerKey struct{}

// Config mirrors the log section of the application config.
type Config struct {
	Level       string // debug, info, warn, error; unknown values mean info
	Development bool   // console encoder with colored levels
	OutputPaths []string
}

// New builds a logger. Both binaries pass stderr as the output path.
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var config zap.Config
	if cfg.Development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		config.OutputPaths = cfg.OutputPaths
	}

	zapLogger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &Logger{zapLogger.Sugar()}, nil
}

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default is the fallback before configuration is loaded. It writes JSON to
// stderr because logoctl prints records and compiled queries on stdout.
func Default() *Logger {
	defaultOnce.Do(func() {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		zapLogger, _ := config.Build(zap.AddCallerSkip(1))
		defaultLogger = &Logger{zapLogger.Sugar()}
	})
	return defaultLogger
}

// Nop discards everything. The facade hands it to library callers that
// bring no logger of their own.
func Nop() *Logger {
	return &Logger{zap.NewNop().Sugar()}
}

// WithContext tags entries with the gateway's trace and request ids.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sugar := l.SugaredLogger
	if trace := appctx.GetTrace(ctx); trace != nil {
		sugar = sugar.With(
			"trace_id", trace.TraceID,
			"request_id", trace.RequestID,
		)
	}
	return &Logger{sugar}
}

func (l *Logger) With(keysAndValues ...any) *Logger {
	return &Logger{l.SugaredLogger.With(keysAndValues...)}
}

// WithComponent names the emitter: logoapi, mirror, gateway.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{l.SugaredLogger.With("component", name)}
}

// WithEntity tags entries with the Logo entity being read or written.
func (l *Logger) WithEntity(name string) *Logger {
	return &Logger{l.SugaredLogger.With("entity", name)}
}

// WithLogger stores logger in ctx for code that only receives a context,
// such as the mirror store and the gateway error middleware.
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the stored logger, or Default, with trace ids attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return l.WithContext(ctx)
	}
	return Default().WithContext(ctx)
}

func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Debugw(msg, keysAndValues...)
}

func Error(ctx context.Context, msg string, keysAndValues ...any) {
	FromContext(ctx).Errorw(msg, keysAndValues...)
}
