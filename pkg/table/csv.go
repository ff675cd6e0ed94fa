package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/transform"
)

// CSVOptions configures the CSV backend
type CSVOptions struct {
	Encoding string
	// Comma is the field delimiter, ',' when zero
	Comma rune
}

func (o CSVOptions) comma() rune {
	if o.Comma == 0 {
		return ','
	}
	return o.Comma
}

// CSVSource reads a delimited text file whose first record is the header
type CSVSource struct {
	Path    string
	Options CSVOptions
}

// NewCSVSource validates the encoding up front so a bad name fails before
// any IO happens
func NewCSVSource(path string, opts CSVOptions) (*CSVSource, error) {
	if _, err := LookupCodec(opts.Encoding); err != nil {
		return nil, err
	}
	return &CSVSource{Path: path, Options: opts}, nil
}

func (s *CSVSource) Read(ctx context.Context) (*Table, error) {
	codec, err := LookupCodec(s.Options.Encoding)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, codec.NewDecoder()))
	r.Comma = s.Options.comma()
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return New(records)
}

// CSVSink writes a table to a delimited text file. The file is written to a
// temporary sibling and renamed into place, so a failed write never leaves
// partial output behind.
type CSVSink struct {
	Path    string
	Options CSVOptions
}

// NewCSVSink validates the encoding up front
func NewCSVSink(path string, opts CSVOptions) (*CSVSink, error) {
	if _, err := LookupCodec(opts.Encoding); err != nil {
		return nil, err
	}
	return &CSVSink{Path: path, Options: opts}, nil
}

func (s *CSVSink) Write(ctx context.Context, t *Table) (err error) {
	codec, err := LookupCodec(s.Options.Encoding)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "."+filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := transform.NewWriter(tmp, codec.NewEncoder())
	w := csv.NewWriter(enc)
	w.Comma = s.Options.comma()

	if err = w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range t.Rows {
		if err = w.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err = w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path, err)
	}
	if err = enc.Close(); err != nil {
		return fmt.Errorf("failed to encode %s as %s: %w", s.Path, codec.Name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
