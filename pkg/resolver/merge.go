package resolver

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/models"
)

// TieBreak decides which domain-bearing record owns a name shared by several
type TieBreak string

const (
	// TieBreakFirst keeps the first record in table order
	TieBreakFirst TieBreak = "first"
	// TieBreakLast keeps the last record in table order
	TieBreakLast TieBreak = "last"
)

// ParseTieBreak validates a tie-break name
func ParseTieBreak(s string) (TieBreak, error) {
	switch TieBreak(s) {
	case TieBreakFirst, TieBreakLast:
		return TieBreak(s), nil
	default:
		return "", fmt.Errorf("unknown tie-break %q (use %q or %q)", s, TieBreakFirst, TieBreakLast)
	}
}

// NameIndex maps name keys of domain-bearing records to their AccountID.
// It is the lookup universe shared by the merge and deletion passes.
type NameIndex map[string]string

// BuildNameIndex indexes every record that has both a domain and a name
func BuildNameIndex(accounts []models.Account, nameKey KeyFunc, tieBreak TieBreak) NameIndex {
	if nameKey == nil {
		nameKey = identity
	}

	index := make(NameIndex)
	for i := range accounts {
		acc := &accounts[i]
		if !acc.HasDomain() {
			continue
		}
		key := nameKey(acc.AccountName)
		if key == nil {
			continue
		}
		if _, exists := index[*key]; exists && tieBreak != TieBreakLast {
			continue
		}
		index[*key] = acc.AccountID
	}
	return index
}

// Lookup returns the target AccountID for a name, if any
func (n NameIndex) Lookup(name *string, nameKey KeyFunc) (string, bool) {
	if nameKey == nil {
		nameKey = identity
	}
	key := nameKey(name)
	if key == nil {
		return "", false
	}
	id, ok := n[*key]
	return id, ok
}

// ResolveMerges proposes a merge for every record without a domain whose
// name matches a domain-bearing record
func ResolveMerges(accounts []models.Account, index NameIndex, nameKey KeyFunc) []Patch {
	patches := make([]Patch, 0)
	for i := range accounts {
		acc := &accounts[i]
		if acc.HasDomain() || !acc.HasName() {
			continue
		}
		target, ok := index.Lookup(acc.AccountName, nameKey)
		if !ok {
			continue
		}
		patches = append(patches, Patch{
			Index:         i,
			Outcome:       models.OutcomeMerge,
			MergeTargetID: models.StringPtr(target),
			Rule:          RuleNameMatch,
		})
	}
	return patches
}
