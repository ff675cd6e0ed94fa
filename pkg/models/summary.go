package models

import "time"

// Summary aggregates the result of one resolver run
type Summary struct {
	RunID               string          `json:"run_id" yaml:"run_id"`
	Total               int             `json:"total" yaml:"total"`
	Outcomes            map[Outcome]int `json:"outcomes" yaml:"outcomes"`
	Groups              int             `json:"groups" yaml:"groups"`
	GroupsWithParent    int             `json:"groups_with_parent" yaml:"groups_with_parent"`
	GroupsWithoutParent int             `json:"groups_without_parent" yaml:"groups_without_parent"`
	PatchesSkipped      int             `json:"patches_skipped" yaml:"patches_skipped"`
	Duration            time.Duration   `json:"duration" yaml:"duration"`
}

// NewSummary counts outcomes over accounts
func NewSummary(runID string, accounts []Account) Summary {
	s := Summary{
		RunID:    runID,
		Total:    len(accounts),
		Outcomes: make(map[Outcome]int, len(Outcomes)),
	}
	for _, o := range Outcomes {
		s.Outcomes[o] = 0
	}
	for i := range accounts {
		s.Outcomes[Outcome(accounts[i].Outcome.String())]++
	}
	return s
}

// Count returns the number of records with the given outcome
func (s Summary) Count(o Outcome) int {
	return s.Outcomes[o]
}
