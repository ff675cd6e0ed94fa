// Package resolver classifies account records into parent/child hierarchies,
// merge candidates and deletion candidates.
//
// Each pass is a pure function over the account table that returns patches.
// Apply writes patches in order and never overwrites a record whose outcome
// is already set, which makes pass ordering the only precedence mechanism.
package resolver

import "github.com/Ramsey-B/fern/pkg/models"

// Rule names recorded on patches and group decisions
const (
	RulePreferredSuffix  = "preferred_suffix"
	RulePrimaryCountry   = "primary_country"
	RuleSecondaryCountry = "secondary_country"
	RuleNameMatch        = "name_match"
	RuleNoActivity       = "no_activity"
)

// Patch is a single field update produced by a pass
type Patch struct {
	Index            int
	Outcome          models.Outcome
	ProposedParentID *string
	MergeTargetID    *string
	Rule             string
}

// ApplyStats reports how many patches were written or rejected
type ApplyStats struct {
	Applied int
	Skipped int
}

// Apply writes patches to accounts. A patch only lands on a record whose
// outcome is still No Action; anything else is counted as skipped.
func Apply(accounts []models.Account, patches []Patch) ApplyStats {
	var stats ApplyStats
	for _, p := range patches {
		if p.Index < 0 || p.Index >= len(accounts) {
			stats.Skipped++
			continue
		}
		acc := &accounts[p.Index]
		if !acc.Outcome.IsNoAction() {
			stats.Skipped++
			continue
		}
		acc.Outcome = p.Outcome
		acc.ProposedParentID = p.ProposedParentID
		acc.MergeTargetID = p.MergeTargetID
		stats.Applied++
	}
	return stats
}

// KeyFunc maps an optional field to its comparison key; nil means absent
type KeyFunc func(*string) *string

// identity is the KeyFunc used when no normalization is configured
func identity(s *string) *string {
	return s
}
