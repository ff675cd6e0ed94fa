package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestApply_OnlyWritesNoActionRecords(t *testing.T) {
	accounts := build(acct{id: "1"}, acct{id: "2"})
	accounts[1].Outcome = models.OutcomeParent

	stats := Apply(accounts, []Patch{
		{Index: 0, Outcome: models.OutcomeDelete},
		{Index: 1, Outcome: models.OutcomeMerge, MergeTargetID: strPtr("x")},
		{Index: 7, Outcome: models.OutcomeDelete},
	})

	assert.Equal(t, ApplyStats{Applied: 1, Skipped: 2}, stats)
	assert.Equal(t, models.OutcomeDelete, accounts[0].Outcome)
	assert.Equal(t, models.OutcomeParent, accounts[1].Outcome)
	assert.Nil(t, accounts[1].MergeTargetID)
}

func TestApply_SecondPatchForSameRecordIsSkipped(t *testing.T) {
	accounts := build(acct{id: "1"})
	stats := Apply(accounts, []Patch{
		{Index: 0, Outcome: models.OutcomeMerge, MergeTargetID: strPtr("t")},
		{Index: 0, Outcome: models.OutcomeDelete},
	})
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, models.OutcomeMerge, accounts[0].Outcome)
}

func TestResolveHierarchy_IgnoresAbsentRoot(t *testing.T) {
	accounts := build(acct{id: "1", domain: "localhost"}, acct{id: "2", domain: "intranet"})
	patches, groups := ResolveHierarchy(accounts, DefaultParentRules(), nil)
	assert.Empty(t, patches)
	assert.Empty(t, groups)
}

func TestResolveHierarchy_NonMatchingMembersStillBecomeChildren(t *testing.T) {
	accounts := build(
		acct{id: "1", domain: "r.de", country: "Germany"},
		acct{id: "2", domain: "r.fr", country: "United States"},
		acct{id: "3", domain: "r.es"},
	)
	for i := range accounts {
		accounts[i].DomainRoot = strPtr("r")
	}

	patches, groups := ResolveHierarchy(accounts, DefaultParentRules(), nil)
	assert.Len(t, patches, 3)
	assert.Equal(t, 1, groups[0].Parent)
	for _, p := range patches {
		if p.Index == 1 {
			assert.Equal(t, models.OutcomeParent, p.Outcome)
			continue
		}
		assert.Equal(t, models.OutcomeChild, p.Outcome)
		assert.Equal(t, "2", *p.ProposedParentID)
	}
}

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("last")
	assert.NoError(t, err)
	assert.Equal(t, TieBreakLast, tb)

	_, err = ParseTieBreak("random")
	assert.Error(t, err)
}

func TestBuildNameIndex_SkipsRecordsWithoutDomainOrName(t *testing.T) {
	accounts := build(
		acct{id: "1", name: "Has Both", domain: "both.com"},
		acct{id: "2", name: "No Domain"},
		acct{id: "3", domain: "noname.com"},
	)
	index := BuildNameIndex(accounts, nil, TieBreakFirst)
	assert.Equal(t, NameIndex{"Has Both": "1"}, index)
}
