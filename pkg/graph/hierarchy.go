package graph

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Relationship types written between account nodes
const (
	RelChildOf   = "CHILD_OF"
	RelMergeInto = "MERGE_INTO"

	DefaultLabel     = "Account"
	defaultBatchSize = 500
)

// Batch is the graph projection of one run
type Batch struct {
	RunID string
	Nodes []any
	// Edges by relationship type
	Edges map[string][]any
}

// BuildBatch projects accounts onto nodes and CHILD_OF / MERGE_INTO edges.
// Parameters are plain maps and slices so the Bolt encoder accepts them.
func BuildBatch(runID string, accounts []models.Account) Batch {
	b := Batch{
		RunID: runID,
		Nodes: make([]any, 0, len(accounts)),
		Edges: map[string][]any{RelChildOf: {}, RelMergeInto: {}},
	}

	for i := range accounts {
		acc := &accounts[i]
		b.Nodes = append(b.Nodes, map[string]any{
			"id":            acc.AccountID,
			"name":          nullable(acc.AccountName),
			"domain":        nullable(acc.Domain),
			"domain_root":   nullable(acc.DomainRoot),
			"domain_suffix": nullable(acc.DomainSuffix),
			"country":       nullable(acc.BillingCountry),
			"outcome":       acc.Outcome.String(),
			"row":           int64(acc.Row),
		})

		switch {
		case acc.Outcome == models.OutcomeChild && acc.ProposedParentID != nil:
			b.Edges[RelChildOf] = append(b.Edges[RelChildOf], edge(acc.AccountID, *acc.ProposedParentID))
		case acc.Outcome == models.OutcomeMerge && acc.MergeTargetID != nil:
			b.Edges[RelMergeInto] = append(b.Edges[RelMergeInto], edge(acc.AccountID, *acc.MergeTargetID))
		}
	}
	return b
}

func edge(from, to string) map[string]any {
	return map[string]any{"from": from, "to": to}
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// Cypher for a node label. Stale hierarchy edges of the touched accounts are
// removed before the run's edges are merged in.
func nodeCypher(label string) string {
	return fmt.Sprintf(`
		UNWIND $nodes AS n
		MERGE (a:%s {id: n.id})
		SET a += n, a.run_id = $run_id
	`, sanitizeLabel(label))
}

func clearEdgesCypher(label string) string {
	return fmt.Sprintf(`
		UNWIND $ids AS id
		MATCH (a:%s {id: id})-[r:%s|%s]->()
		DELETE r
	`, sanitizeLabel(label), RelChildOf, RelMergeInto)
}

func edgeCypher(label, relType string) string {
	l := sanitizeLabel(label)
	return fmt.Sprintf(`
		UNWIND $edges AS e
		MATCH (from:%s {id: e.from})
		MATCH (to:%s {id: e.to})
		MERGE (from)-[r:%s]->(to)
		SET r.run_id = $run_id
	`, l, l, sanitizeLabel(relType))
}

func sanitizeLabel(label string) string {
	result := make([]rune, 0, len(label))
	for _, c := range label {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		}
	}
	if len(result) == 0 {
		return DefaultLabel
	}
	return string(result)
}

func chunks(items []any, size int) [][]any {
	out := make([][]any, 0, len(items)/size+1)
	for start := 0; start < len(items); start += size {
		out = append(out, items[start:min(start+size, len(items))])
	}
	return out
}

// HierarchyExporter writes a run's hierarchy to the graph
type HierarchyExporter struct {
	client    *Client
	logger    ectologger.Logger
	label     string
	batchSize int
}

func NewHierarchyExporter(client *Client, label string, logger ectologger.Logger) *HierarchyExporter {
	if label == "" {
		label = DefaultLabel
	}
	return &HierarchyExporter{
		client:    client,
		logger:    logger,
		label:     label,
		batchSize: defaultBatchSize,
	}
}

// Export upserts every account node and its hierarchy edges in one write
// transaction
func (e *HierarchyExporter) Export(ctx context.Context, runID string, accounts []models.Account) error {
	ctx, span := tracing.StartSpan(ctx, "graph.HierarchyExporter.Export")
	defer span.End()

	batch := BuildBatch(runID, accounts)
	ids := make([]any, len(accounts))
	for i := range accounts {
		ids[i] = accounts[i].AccountID
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":     runID,
		"nodes":      len(batch.Nodes),
		"child_of":   len(batch.Edges[RelChildOf]),
		"merge_into": len(batch.Edges[RelMergeInto]),
	})

	_, err := e.client.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		run := func(cypher string, params map[string]any) error {
			params["run_id"] = runID
			result, err := tx.Run(ctx, cypher, params)
			if err != nil {
				return err
			}
			_, err = result.Consume(ctx)
			return err
		}

		for _, part := range chunks(batch.Nodes, e.batchSize) {
			if err := run(nodeCypher(e.label), map[string]any{"nodes": part}); err != nil {
				return nil, err
			}
		}
		for _, part := range chunks(ids, e.batchSize) {
			if err := run(clearEdgesCypher(e.label), map[string]any{"ids": part}); err != nil {
				return nil, err
			}
		}
		for _, relType := range []string{RelChildOf, RelMergeInto} {
			for _, part := range chunks(batch.Edges[relType], e.batchSize) {
				if err := run(edgeCypher(e.label, relType), map[string]any{"edges": part}); err != nil {
					return nil, err
				}
			}
		}
		return nil, nil
	})
	if err != nil {
		log.WithError(err).Error("Failed to export hierarchy to graph")
		return fmt.Errorf("failed to export hierarchy: %w", err)
	}

	log.Debug("Exported hierarchy to graph")
	return nil
}
