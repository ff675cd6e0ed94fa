package tracing

import (
	"context"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpan_NoTracer(t *testing.T) {
	SetTracer(nil)
	ctx := context.Background()

	got, span := StartSpan(ctx, "noop")
	require.NotNil(t, span)
	defer span.End()

	assert.Equal(t, ctx, got)
	assert.Nil(t, GetActiveSpan(got))
	assert.Empty(t, GetTraceID(got))
	SetCounts(span, map[string]int{"rows": 3})
}

func TestStartSpan_WithTracer(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	SetTracer(tp.Tracer("test"))
	t.Cleanup(func() {
		SetTracer(nil)
		_ = tp.Shutdown(context.Background())
	})

	ctx, span := StartSpan(context.Background(), "resolve")
	defer span.End()

	require.NotNil(t, GetActiveSpan(ctx))
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 32)

	traceParent := GetTraceParent(ctx)
	assert.True(t, strings.HasPrefix(traceParent, "00-"+traceID+"-"), traceParent)
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_UnsupportedProtocol(t *testing.T) {
	cfg := Config{Enabled: true, ServiceName: "fern"}
	cfg.OTLP.Protocol = "carrier-pigeon"
	_, err := Setup(context.Background(), cfg)
	assert.Error(t, err)
}
