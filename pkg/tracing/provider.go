package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/fern/pkg/tracing/exporters"
)

// Config controls tracer provider setup
type Config struct {
	Enabled     bool
	ServiceName string
	OTLP        exporters.OTLPConfig
}

// Setup installs a global tracer provider exporting over OTLP. When tracing
// is disabled it leaves the no-op tracer in place. The returned function
// flushes and shuts the provider down.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := exporters.NewOTLPExporter(ctx, cfg.OTLP)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	SetTracer(provider.Tracer(cfg.ServiceName))

	return func(ctx context.Context) error {
		SetTracer(nil)
		return provider.Shutdown(ctx)
	}, nil
}
