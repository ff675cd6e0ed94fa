// Package pipeline runs one read, resolve, write cycle followed by the
// optional side sinks
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/resolver"
	"github.com/Ramsey-B/fern/pkg/table"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Stage names used for timing
const (
	StageRead    = "read"
	StageResolve = "resolve"
	StageWrite   = "write"
)

// Runner wires a source, the resolver engine and a sink together
type Runner struct {
	logger    ectologger.Logger
	engine    *resolver.Engine
	parse     table.ParseOptions
	sideSinks []SideSink
	metrics   *metrics.Run
}

// Option customises a Runner
type Option func(*Runner)

// WithSideSinks adds sinks that receive the result after the primary write
func WithSideSinks(sinks ...SideSink) Option {
	return func(r *Runner) {
		r.sideSinks = append(r.sideSinks, sinks...)
	}
}

// WithMetrics records stage timings and counts on m
func WithMetrics(m *metrics.Run) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

func NewRunner(logger ectologger.Logger, engine *resolver.Engine, parse table.ParseOptions, opts ...Option) *Runner {
	r := &Runner{
		logger: logger,
		engine: engine,
		parse:  parse,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads the whole source, classifies it, and writes the enriched table.
// Any error aborts before the sink is touched, so the output is either
// complete or not written. Side sinks only run after a successful write.
func (r *Runner) Run(ctx context.Context, src table.Source, dst table.Sink) (*resolver.Result, error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.Runner.Run")
	defer span.End()

	log := r.logger.WithContext(ctx)

	var input *table.Table
	err := r.timed(StageRead, func() (err error) {
		input, err = src.Read(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	accounts, err := input.Accounts(r.parse)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	log.WithFields(map[string]any{
		"rows":    input.Len(),
		"columns": len(input.Header),
	}).Info("read input")

	var result *resolver.Result
	err = r.timed(StageResolve, func() (err error) {
		result, err = r.engine.Resolve(ctx, accounts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	output, err := input.Enrich(result.Accounts)
	if err != nil {
		return nil, fmt.Errorf("failed to build output: %w", err)
	}

	err = r.timed(StageWrite, func() error {
		return dst.Write(ctx, output)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}

	for _, sink := range r.sideSinks {
		var emitted int
		err := r.timed(sink.Name(), func() (err error) {
			emitted, err = sink.Emit(ctx, result)
			return err
		})
		if err != nil {
			return result, fmt.Errorf("side sink %s failed: %w", sink.Name(), err)
		}
		if r.metrics != nil {
			r.metrics.ObserveSideSink(sink.Name(), emitted)
		}
		log.WithFields(map[string]any{
			"sink":    sink.Name(),
			"emitted": emitted,
		}).Info("side sink complete")
	}

	if r.metrics != nil {
		r.metrics.ObserveSummary(result.Summary)
		r.metrics.MarkSuccess(time.Now())
	}

	return result, nil
}

func (r *Runner) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	if r.metrics != nil {
		r.metrics.ObserveStage(stage, time.Since(start))
	}
	return err
}
