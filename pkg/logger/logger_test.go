package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	appctx "logoobjects/internal/core/context"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{zap.New(core).Sugar()}, logs
}

func TestFromContext_CarriesTraceAndEntity(t *testing.T) {
	log, logs := observed(zapcore.DebugLevel)

	ctx := appctx.WithTrace(context.Background(), &appctx.TraceContext{TraceID: "t-1", RequestID: "r-1"})
	ctx = WithLogger(ctx, log.WithComponent("mirror").WithEntity("Items"))

	Debug(ctx, "page stored", "offset", 100)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "mirror", fields["component"])
	assert.Equal(t, "Items", fields["entity"])
	assert.Equal(t, "t-1", fields["trace_id"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.EqualValues(t, 100, fields["offset"])
}

func TestNew_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		debug bool
	}{
		{name: "debug", level: "debug", debug: true},
		{name: "warn", level: "warn", debug: false},
		{name: "unknown falls back to info", level: "loud", debug: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(Config{Level: tt.level, OutputPaths: []string{"stderr"}})
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Desugar().Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Same(t, Default(), Default())
}
