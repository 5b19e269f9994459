package pyramid

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column titles matched in the header row.
const (
	ColumnAge    = "Age"
	ColumnMale   = "Male"
	ColumnFemale = "Female"
)

// ParseResult holds the rows in file order plus anything odd seen on the way.
// Anomalies never stop parsing.
type ParseResult struct {
	Rows      []RawRow
	Anomalies []error
}

// MissingColumnError reports a header without one of the expected titles.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("header has no %q column", e.Column)
}

// ParseString parses CSV text already held in memory.
func ParseString(text string) ParseResult {
	res, _ := ParseRows(strings.NewReader(text))
	return res
}

// ParseRows reads a CSV document whose first record is a header naming the
// columns. Fields missing from a record are left empty. The error is only
// non-nil when the underlying reader fails.
func ParseRows(r io.Reader) (ParseResult, error) {
	res := ParseResult{Rows: []RawRow{}}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return res, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return res, fmt.Errorf("read header: %w", err)
		}
		res.Anomalies = append(res.Anomalies, err)
	}
	idx := headerIndex(header)
	for _, col := range []string{ColumnAge, ColumnMale, ColumnFemale} {
		if _, ok := idx[col]; !ok {
			res.Anomalies = append(res.Anomalies, &MissingColumnError{Column: col})
		}
	}

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if !errors.As(err, &pe) {
				return res, fmt.Errorf("read record %d: %w", len(res.Rows)+1, err)
			}
			res.Anomalies = append(res.Anomalies, err)
			if rec == nil {
				continue
			}
		}
		res.Rows = append(res.Rows, RawRow{
			Age:    field(rec, idx, ColumnAge),
			Male:   field(rec, idx, ColumnMale),
			Female: field(rec, idx, ColumnFemale),
		})
	}
	return res, nil
}

// headerIndex maps column titles to positions; the first occurrence wins.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func field(rec []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}
