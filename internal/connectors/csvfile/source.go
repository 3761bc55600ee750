package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/custodia-labs/carsearch/internal/core/domain"
	"github.com/custodia-labs/carsearch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.RecordSource = (*Source)(nil)

// utf8BOM is stripped from the first header cell (spreadsheet exports add it).
const utf8BOM = "\ufeff"

// Source reads raw rows from a CSV file.
type Source struct {
	path    string
	comma   rune
	columns []string
	mu      sync.Mutex
	closed  bool
}

// Option configures a Source.
type Option func(*Source)

// WithComma sets the field delimiter (default ',').
func WithComma(r rune) Option {
	return func(s *Source) {
		if r != 0 {
			s.comma = r
		}
	}
}

// WithColumns overrides the required column set.
func WithColumns(columns ...string) Option {
	return func(s *Source) {
		if len(columns) > 0 {
			s.columns = columns
		}
	}
}

// New creates a CSV source for the file at path.
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:    path,
		comma:   ',',
		columns: domain.Columns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Type returns the source type identifier.
func (s *Source) Type() string {
	return "csv"
}

// Path returns the configured file path.
func (s *Source) Path() string {
	return s.path
}

// Validate opens the file and checks its header.
func (s *Source) Validate(ctx context.Context) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	_, err = s.readHeader(s.reader(f))
	return err
}

// Rows reads every data row in file order.
// Fails with domain.ErrMissingColumn before returning any row when the
// header lacks a required column.
func (s *Source) Rows(ctx context.Context) ([]domain.RawRow, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	return s.read(ctx, f)
}

// Close releases resources. Further calls fail with ErrClosed.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Source) check(ctx context.Context) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if s.path == "" {
		return ErrNoPath
	}
	return ctx.Err()
}

func (s *Source) reader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = s.comma
	cr.FieldsPerRecord = -1
	return cr
}

// read parses header and rows from r.
func (s *Source) read(ctx context.Context, r io.Reader) ([]domain.RawRow, error) {
	cr := s.reader(r)

	header, err := s.readHeader(cr)
	if err != nil {
		return nil, err
	}

	var rows []domain.RawRow
	n := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", n+1, err)
		}
		if isEmptyLine(record) {
			continue
		}
		n++
		if n%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				fields[name] = record[i]
			}
		}
		rows = append(rows, domain.RawRow{Row: n, Fields: fields})
	}

	return rows, nil
}

// readHeader reads the first record and checks the required columns.
func (s *Source) readHeader(cr *csv.Reader) ([]string, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s (file has no header)", domain.ErrMissingColumn, strings.Join(s.columns, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	present := make(map[string]bool, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		header[i] = name
		present[name] = true
	}

	var missing []string
	for _, col := range s.columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingColumn, strings.Join(missing, ", "))
	}

	return header, nil
}

// isEmptyLine reports whether a record holds a single blank cell.
func isEmptyLine(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}
