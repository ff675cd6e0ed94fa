package pipeline

import (
	"context"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/resolver"
)

// SideSink receives a finished run. Emit returns how many items it sent.
type SideSink interface {
	Name() string
	Emit(ctx context.Context, result *resolver.Result) (int, error)
}

type sideSink struct {
	name string
	emit func(ctx context.Context, result *resolver.Result) (int, error)
}

func (s sideSink) Name() string {
	return s.name
}

func (s sideSink) Emit(ctx context.Context, result *resolver.Result) (int, error) {
	return s.emit(ctx, result)
}

// NewSideSink adapts a function to SideSink
func NewSideSink(name string, emit func(ctx context.Context, result *resolver.Result) (int, error)) SideSink {
	return sideSink{name: name, emit: emit}
}

// OutcomePublisher is satisfied by the kafka producer
type OutcomePublisher interface {
	PublishOutcomes(ctx context.Context, runID string, accounts []models.Account) (int, error)
}

// KafkaSink publishes an event for every actioned account
func KafkaSink(p OutcomePublisher) SideSink {
	return NewSideSink("kafka", func(ctx context.Context, result *resolver.Result) (int, error) {
		return p.PublishOutcomes(ctx, result.RunID, result.Accounts)
	})
}

// HierarchyExporter is satisfied by the graph exporter
type HierarchyExporter interface {
	Export(ctx context.Context, runID string, accounts []models.Account) error
}

// GraphSink mirrors the run's hierarchy into the graph database
func GraphSink(e HierarchyExporter) SideSink {
	return NewSideSink("graph", func(ctx context.Context, result *resolver.Result) (int, error) {
		if err := e.Export(ctx, result.RunID, result.Accounts); err != nil {
			return 0, err
		}
		return len(result.Accounts), nil
	})
}
