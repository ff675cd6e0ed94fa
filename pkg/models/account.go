package models

// Outcome is the final per-record classification emitted by a run
type Outcome string

const (
	OutcomeNoAction Outcome = "No Action"
	OutcomeParent   Outcome = "Parent"
	OutcomeChild    Outcome = "Child"
	OutcomeMerge    Outcome = "Merge"
	OutcomeDelete   Outcome = "Delete"
)

// Outcomes lists every outcome in report order
var Outcomes = []Outcome{OutcomeNoAction, OutcomeParent, OutcomeChild, OutcomeMerge, OutcomeDelete}

// IsNoAction reports whether the outcome is unset or explicitly No Action
func (o Outcome) IsNoAction() bool {
	return o == "" || o == OutcomeNoAction
}

// String returns the wire label, mapping the zero value to No Action
func (o Outcome) String() string {
	if o == "" {
		return string(OutcomeNoAction)
	}
	return string(o)
}

// Account is one row of the account table.
//
// Optional text fields use nil for "absent". Readers are expected to map
// empty cells and null tokens to nil before the resolver sees the record.
type Account struct {
	// Row is the zero-based position of the record in the source table
	Row int `json:"row"`

	AccountID              string  `json:"account_id" validate:"required"`
	AccountName            *string `json:"account_name,omitempty"`
	Domain                 *string `json:"domain,omitempty"`
	Website                *string `json:"website,omitempty"`
	BillingCountry         *string `json:"billing_country,omitempty"`
	ClosedOpportunityCount int     `json:"closed_opportunity_count" validate:"gte=0"`
	OpenOpportunityCount   int     `json:"open_opportunity_count" validate:"gte=0"`

	// Derived by the resolver
	DomainRoot       *string `json:"domain_root,omitempty"`
	DomainSuffix     *string `json:"domain_suffix,omitempty"`
	Outcome          Outcome `json:"outcome"`
	ProposedParentID *string `json:"proposed_parent_id,omitempty"`
	MergeTargetID    *string `json:"merge_target_id,omitempty"`
}

// HasDomain reports whether the record carries a domain
func (a *Account) HasDomain() bool {
	return a.Domain != nil
}

// HasName reports whether the record carries an account name
func (a *Account) HasName() bool {
	return a.AccountName != nil
}

// HasActivity reports whether the record has any opportunity history
func (a *Account) HasActivity() bool {
	return a.ClosedOpportunityCount > 0 || a.OpenOpportunityCount > 0
}

// ResetDerived clears every field the resolver produces
func (a *Account) ResetDerived() {
	a.DomainRoot = nil
	a.DomainSuffix = nil
	a.Outcome = OutcomeNoAction
	a.ProposedParentID = nil
	a.MergeTargetID = nil
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string or "" when absent
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
