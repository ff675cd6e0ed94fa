package resolver

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// Options configures an Engine
type Options struct {
	Rules    ParentRules
	TieBreak TieBreak
	// DomainNormalizers build the key a domain is split, grouped and
	// suffix-matched on. Empty means the raw domain.
	DomainNormalizers []string
	// NameNormalizers build the comparison key for account names. Empty
	// means the raw name.
	NameNormalizers []string
}

// DefaultOptions returns the stock rule set with first-occurrence tie-break.
// Domains and names are compared exactly as read.
func DefaultOptions() Options {
	return Options{
		Rules:    DefaultParentRules(),
		TieBreak: TieBreakFirst,
	}
}

// Result is the outcome of one resolver run
type Result struct {
	RunID    string
	Accounts []models.Account
	Groups   []GroupDecision
	Summary  models.Summary
}

// Engine runs the normalize, hierarchy, merge and deletion passes
type Engine struct {
	logger  ectologger.Logger
	options Options
}

// NewEngine creates a new resolver engine
func NewEngine(logger ectologger.Logger, options Options) *Engine {
	if options.TieBreak == "" {
		options.TieBreak = TieBreakFirst
	}
	return &Engine{
		logger:  logger,
		options: options,
	}
}

func (e *Engine) domainKey(s *string) *string {
	return normalizers.Key(s, e.options.DomainNormalizers...)
}

func (e *Engine) nameKey(s *string) *string {
	return normalizers.Key(s, e.options.NameNormalizers...)
}

// Normalize fills DomainRoot and DomainSuffix from each record's domain key
func (e *Engine) Normalize(accounts []models.Account) {
	for i := range accounts {
		accounts[i].DomainRoot, accounts[i].DomainSuffix = normalizers.DomainRootAndSuffix(e.domainKey(accounts[i].Domain))
	}
}

// Resolve classifies a copy of accounts. Derived fields already present on
// the input are discarded first, so resolving a previous result gives the
// same classifications.
func (e *Engine) Resolve(ctx context.Context, accounts []models.Account) (*Result, error) {
	ctx, span := tracing.StartSpan(ctx, "resolver.Engine.Resolve")
	defer span.End()

	start := time.Now()
	runID := uuid.NewString()

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":    runID,
		"records":   len(accounts),
		"tie_break": string(e.options.TieBreak),
	})

	table := make([]models.Account, len(accounts))
	copy(table, accounts)
	for i := range table {
		table[i].ResetDerived()
	}

	e.Normalize(table)

	var skipped int

	groups, stats := e.hierarchyPass(ctx, table, log)
	skipped += stats.Skipped
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	index := BuildNameIndex(table, e.nameKey, e.options.TieBreak)

	stats = e.mergePass(ctx, table, index, log)
	skipped += stats.Skipped
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats = e.deletionPass(ctx, table, index, log)
	skipped += stats.Skipped

	summary := models.NewSummary(runID, table)
	summary.PatchesSkipped = skipped
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		summary.Groups++
		if g.HasParent() {
			summary.GroupsWithParent++
		} else {
			summary.GroupsWithoutParent++
		}
	}
	summary.Duration = time.Since(start)

	tracing.SetCounts(span, map[string]int{
		"fern.records":  summary.Total,
		"fern.parents":  summary.Count(models.OutcomeParent),
		"fern.children": summary.Count(models.OutcomeChild),
		"fern.merges":   summary.Count(models.OutcomeMerge),
		"fern.deletes":  summary.Count(models.OutcomeDelete),
	})

	log.WithFields(map[string]any{
		"parents":               summary.Count(models.OutcomeParent),
		"children":              summary.Count(models.OutcomeChild),
		"merges":                summary.Count(models.OutcomeMerge),
		"deletes":               summary.Count(models.OutcomeDelete),
		"groups":                summary.Groups,
		"groups_without_parent": summary.GroupsWithoutParent,
		"duration_ms":           summary.Duration.Milliseconds(),
	}).Info("Resolved account relationships")

	return &Result{
		RunID:    runID,
		Accounts: table,
		Groups:   groups,
		Summary:  summary,
	}, nil
}

func (e *Engine) hierarchyPass(ctx context.Context, table []models.Account, log ectologger.Logger) ([]GroupDecision, ApplyStats) {
	_, span := tracing.StartSpan(ctx, "resolver.Engine.hierarchyPass")
	defer span.End()

	patches, groups := ResolveHierarchy(table, e.options.Rules, e.domainKey)

	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		glog := log.WithFields(map[string]any{
			"domain_root": g.Root,
			"members":     len(g.Members),
		})
		if !g.HasParent() {
			glog.Debug("No parent rule matched domain group")
			continue
		}
		parent := &table[g.Parent]
		glog.WithFields(map[string]any{
			"rule":          g.Rule,
			"parent_id":     parent.AccountID,
			"parent_name":   models.Deref(parent.AccountName),
			"parent_domain": models.Deref(parent.Domain),
		}).Debug("Parent assigned for domain group")
	}

	stats := Apply(table, patches)
	tracing.SetCounts(span, map[string]int{"fern.patches": len(patches), "fern.skipped": stats.Skipped})
	return groups, stats
}

func (e *Engine) mergePass(ctx context.Context, table []models.Account, index NameIndex, log ectologger.Logger) ApplyStats {
	_, span := tracing.StartSpan(ctx, "resolver.Engine.mergePass")
	defer span.End()

	patches := ResolveMerges(table, index, e.nameKey)
	stats := Apply(table, patches)
	tracing.SetCounts(span, map[string]int{"fern.patches": len(patches), "fern.skipped": stats.Skipped})

	log.WithFields(map[string]any{
		"candidates": len(patches),
		"applied":    stats.Applied,
		"names":      len(index),
	}).Debug("Merge pass complete")
	return stats
}

func (e *Engine) deletionPass(ctx context.Context, table []models.Account, index NameIndex, log ectologger.Logger) ApplyStats {
	_, span := tracing.StartSpan(ctx, "resolver.Engine.deletionPass")
	defer span.End()

	patches := ResolveDeletions(table, index, e.nameKey)
	stats := Apply(table, patches)
	tracing.SetCounts(span, map[string]int{"fern.patches": len(patches), "fern.skipped": stats.Skipped})

	log.WithFields(map[string]any{
		"candidates": len(patches),
		"applied":    stats.Applied,
	}).Debug("Deletion pass complete")
	return stats
}
