package resolver

import (
	"strings"

	"github.com/Gobusters/ectolinq"

	"github.com/Ramsey-B/fern/pkg/models"
)

// ParentRules configures parent selection inside a domain group
type ParentRules struct {
	// PreferredSuffix wins first, matched against the end of the domain key
	PreferredSuffix string `validate:"required"`
	// PrimaryCountries are billing countries that win when no domain matched
	PrimaryCountries []string
	// SecondaryCountries are consulted last
	SecondaryCountries []string
}

// DefaultParentRules returns .com, then United States, then United Kingdom/Europe
func DefaultParentRules() ParentRules {
	return ParentRules{
		PreferredSuffix:    ".com",
		PrimaryCountries:   []string{"United States"},
		SecondaryCountries: []string{"United Kingdom", "Europe"},
	}
}

// GroupDecision describes what the hierarchy pass did with one domain group
type GroupDecision struct {
	Root    string
	Members []int
	// Parent is the table index of the chosen parent, or -1 when no rule matched
	Parent int
	Rule   string
}

// HasParent reports whether a parent was selected
func (g GroupDecision) HasParent() bool {
	return g.Parent >= 0
}

type parentRule struct {
	name  string
	match func(acc *models.Account) bool
}

func (r ParentRules) ordered(domainKey KeyFunc) []parentRule {
	return []parentRule{
		{
			name: RulePreferredSuffix,
			match: func(acc *models.Account) bool {
				key := domainKey(acc.Domain)
				return key != nil && r.PreferredSuffix != "" && strings.HasSuffix(*key, r.PreferredSuffix)
			},
		},
		{
			name: RulePrimaryCountry,
			match: func(acc *models.Account) bool {
				return countryIn(acc.BillingCountry, r.PrimaryCountries)
			},
		},
		{
			name: RuleSecondaryCountry,
			match: func(acc *models.Account) bool {
				return countryIn(acc.BillingCountry, r.SecondaryCountries)
			},
		},
	}
}

func countryIn(country *string, countries []string) bool {
	if country == nil || len(countries) == 0 {
		return false
	}
	return ectolinq.Contains(countries, strings.TrimSpace(*country))
}

// groupByRoot collects table indexes per non-absent domain root, keeping
// groups in order of first appearance and members in table order
func groupByRoot(accounts []models.Account) []GroupDecision {
	byRoot := make(map[string]int)
	groups := make([]GroupDecision, 0)
	for i := range accounts {
		root := accounts[i].DomainRoot
		if root == nil {
			continue
		}
		pos, ok := byRoot[*root]
		if !ok {
			pos = len(groups)
			byRoot[*root] = pos
			groups = append(groups, GroupDecision{Root: *root, Parent: -1})
		}
		groups[pos].Members = append(groups[pos].Members, i)
	}
	return groups
}

// ResolveHierarchy selects one parent per domain group of two or more
// members. Rules are tried in order and only the first rule with any
// candidate is used; inside it the earliest record wins. Every other member
// of the group becomes a child of that parent. Groups where no rule matches
// produce no patches.
func ResolveHierarchy(accounts []models.Account, rules ParentRules, domainKey KeyFunc) ([]Patch, []GroupDecision) {
	if domainKey == nil {
		domainKey = identity
	}

	ordered := rules.ordered(domainKey)
	groups := groupByRoot(accounts)
	patches := make([]Patch, 0)

	for g := range groups {
		group := &groups[g]
		if len(group.Members) < 2 {
			continue
		}

		for _, rule := range ordered {
			candidates := ectolinq.Filter(group.Members, func(i int) bool {
				return rule.match(&accounts[i])
			})
			if len(candidates) == 0 {
				continue
			}
			group.Parent = candidates[0]
			group.Rule = rule.name
			break
		}

		if !group.HasParent() {
			continue
		}

		parentID := accounts[group.Parent].AccountID
		for _, i := range group.Members {
			if i == group.Parent {
				patches = append(patches, Patch{Index: i, Outcome: models.OutcomeParent, Rule: group.Rule})
				continue
			}
			patches = append(patches, Patch{
				Index:            i,
				Outcome:          models.OutcomeChild,
				ProposedParentID: models.StringPtr(parentID),
				Rule:             group.Rule,
			})
		}
	}

	return patches, groups
}
