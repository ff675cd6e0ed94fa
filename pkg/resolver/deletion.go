package resolver

import "github.com/Ramsey-B/fern/pkg/models"

// IsDeletable reports whether a record has no domain, no website and no
// opportunity history
func IsDeletable(acc *models.Account) bool {
	return !acc.HasDomain() && acc.Website == nil && !acc.HasActivity()
}

// ResolveDeletions proposes deletion for inactive records unless a
// domain-bearing record shares their name, in which case a merge is the
// better outcome
func ResolveDeletions(accounts []models.Account, index NameIndex, nameKey KeyFunc) []Patch {
	patches := make([]Patch, 0)
	for i := range accounts {
		acc := &accounts[i]
		if !IsDeletable(acc) {
			continue
		}
		if _, shared := index.Lookup(acc.AccountName, nameKey); shared {
			continue
		}
		patches = append(patches, Patch{Index: i, Outcome: models.OutcomeDelete, Rule: RuleNoActivity})
	}
	return patches
}
