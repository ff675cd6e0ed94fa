package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable is returned when the source has no header row
	ErrEmptyTable = errors.New("table has no header row")
	// ErrMissingColumn is returned when a required column is absent from the header
	ErrMissingColumn = errors.New("required column missing")
	// ErrMalformedRow is returned when a row has more cells than the header
	ErrMalformedRow = errors.New("row has more cells than the header")
	// ErrMissingAccountID is returned when a row has no account id
	ErrMissingAccountID = errors.New("account id is empty")
	// ErrInvalidCount is returned when an opportunity count is not a non-negative integer
	ErrInvalidCount = errors.New("invalid opportunity count")
	// ErrUnsupportedEncoding is returned for unknown text encodings
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
	// ErrRowCountMismatch is returned when enrichment data does not line up with the table
	ErrRowCountMismatch = errors.New("row count mismatch")
)

// RowError locates a structural problem in the input table
type RowError struct {
	// Row is the 1-based data row number, not counting the header
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	if e.Value == "" {
		return fmt.Sprintf("row %d, column %q: %v", e.Row, e.Column, e.Err)
	}
	return fmt.Sprintf("row %d, column %q: %v: %q", e.Row, e.Column, e.Err, e.Value)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
