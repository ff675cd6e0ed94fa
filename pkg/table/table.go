// Package table holds the raw account grid and converts it to and from
// account records
package table

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Names of the columns appended to every output row
const (
	ColumnDomainRoot       = "Domain Root"
	ColumnDomainSuffix     = "Domain Suffix"
	ColumnOutcome          = "Outcome"
	ColumnProposedParentID = "Proposed Parent ID"
	ColumnMergeTargetID    = "Merge Target ID"
)

// DerivedColumns lists the appended columns in output order
var DerivedColumns = []string{
	ColumnDomainRoot,
	ColumnDomainSuffix,
	ColumnOutcome,
	ColumnProposedParentID,
	ColumnMergeTargetID,
}

// DefaultNullTokens are cell values read as absent, matching the usual
// spreadsheet and dataframe export conventions
var DefaultNullTokens = []string{"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "None", "#N/A", "#NA", "<NA>"}

// Source reads a whole table
type Source interface {
	Read(ctx context.Context) (*Table, error)
}

// Sink writes a whole table
type Sink interface {
	Write(ctx context.Context, t *Table) error
}

// Columns names the input columns the resolver reads
type Columns struct {
	AccountID           string `validate:"required"`
	AccountName         string `validate:"required"`
	Domain              string `validate:"required"`
	Website             string `validate:"required"`
	BillingCountry      string `validate:"required"`
	ClosedOpportunities string `validate:"required"`
	OpenOpportunities   string `validate:"required"`
}

// DefaultColumns returns the column names of a standard CRM account export
func DefaultColumns() Columns {
	return Columns{
		AccountID:           "Account ID",
		AccountName:         "Account Name",
		Domain:              "Domain",
		Website:             "Website",
		BillingCountry:      "Billing Country",
		ClosedOpportunities: "# of Closed Opportunities",
		OpenOpportunities:   "# of Open Opportunities",
	}
}

func (c Columns) required() []string {
	return []string{c.AccountID, c.AccountName, c.Domain, c.Website, c.BillingCountry, c.ClosedOpportunities, c.OpenOpportunities}
}

// Table is a header plus rows of text cells. Every row has exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// New builds a table from raw records where the first record is the header.
// Short rows are padded with empty cells, long rows are rejected, and
// previously appended derived columns are dropped so they can be recomputed.
func New(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for n, rec := range records[1:] {
		if len(rec) > len(header) {
			return nil, &RowError{Row: n + 1, Err: fmt.Errorf("%w: %d cells, %d columns", ErrMalformedRow, len(rec), len(header))}
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	t := &Table{Header: header, Rows: rows}
	t.dropDerived()
	return t, nil
}

func (t *Table) dropDerived() {
	keep := make([]int, 0, len(t.Header))
	for i, h := range t.Header {
		if !slices.Contains(DerivedColumns, h) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Header) {
		return
	}

	project := func(cells []string) []string {
		out := make([]string, len(keep))
		for j, i := range keep {
			out[j] = cells[i]
		}
		return out
	}

	t.Header = project(t.Header)
	for r := range t.Rows {
		t.Rows[r] = project(t.Rows[r])
	}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex finds a column by exact name, falling back to a
// case-insensitive match
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

// ParseOptions controls how rows become accounts
type ParseOptions struct {
	Columns    Columns
	NullTokens []string
}

// DefaultParseOptions uses DefaultColumns and DefaultNullTokens
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Columns: DefaultColumns(), NullTokens: DefaultNullTokens}
}

// Accounts projects every row onto an account record. Empty cells and cells
// equal to a null token become nil. A missing required column or an unparseable row fails
// the whole table.
func (t *Table) Accounts(opts ParseOptions) ([]models.Account, error) {
	idx := make(map[string]int, 7)
	missing := make([]string, 0)
	for _, name := range opts.Columns.required() {
		i, ok := t.ColumnIndex(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		idx[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	nulls := make(map[string]struct{}, len(opts.NullTokens))
	for _, tok := range opts.NullTokens {
		nulls[tok] = struct{}{}
	}
	// Only empty cells and exact null tokens are absent. Whitespace is a value.
	cell := func(row []string, column string) *string {
		v := row[idx[column]]
		if v == "" {
			return nil
		}
		if _, isNull := nulls[v]; isNull {
			return nil
		}
		return &v
	}

	cols := opts.Columns
	accounts := make([]models.Account, len(t.Rows))
	for r, row := range t.Rows {
		id := cell(row, cols.AccountID)
		if id == nil || strings.TrimSpace(*id) == "" {
			return nil, &RowError{Row: r + 1, Column: cols.AccountID, Err: ErrMissingAccountID}
		}

		closed, err := parseCount(cell(row, cols.ClosedOpportunities))
		if err != nil {
			return nil, &RowError{Row: r + 1, Column: cols.ClosedOpportunities, Value: row[idx[cols.ClosedOpportunities]], Err: err}
		}
		open, err := parseCount(cell(row, cols.OpenOpportunities))
		if err != nil {
			return nil, &RowError{Row: r + 1, Column: cols.OpenOpportunities, Value: row[idx[cols.OpenOpportunities]], Err: err}
		}

		accounts[r] = models.Account{
			Row:                    r,
			AccountID:              strings.TrimSpace(*id),
			AccountName:            cell(row, cols.AccountName),
			Domain:                 cell(row, cols.Domain),
			Website:                cell(row, cols.Website),
			BillingCountry:         cell(row, cols.BillingCountry),
			ClosedOpportunityCount: closed,
			OpenOpportunityCount:   open,
			Outcome:                models.OutcomeNoAction,
		}
	}

	return accounts, nil
}

// parseCount reads a non-negative whole number; absent or blank means 0 and
// whole floats such as "3.0" are accepted
func parseCount(v *string) (int, error) {
	if v == nil {
		return 0, nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, ErrInvalidCount
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, ErrInvalidCount
	}
	return int(f), nil
}

// Enrich returns a copy of the table with the derived columns appended.
// accounts must be in table order, one per row.
func (t *Table) Enrich(accounts []models.Account) (*Table, error) {
	if len(accounts) != len(t.Rows) {
		return nil, fmt.Errorf("%w: %d rows, %d accounts", ErrRowCountMismatch, len(t.Rows), len(accounts))
	}

	header := make([]string, 0, len(t.Header)+len(DerivedColumns))
	header = append(header, t.Header...)
	header = append(header, DerivedColumns...)

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		acc := accounts[r]
		out := make([]string, 0, len(header))
		out = append(out, row...)
		out = append(out,
			models.Deref(acc.DomainRoot),
			models.Deref(acc.DomainSuffix),
			acc.Outcome.String(),
			models.Deref(acc.ProposedParentID),
			models.Deref(acc.MergeTargetID),
		)
		rows[r] = out
	}

	return &Table{Header: header, Rows: rows}, nil
}
