// Package table turns an uploaded CSV export into typed transactions.
//
// Load parses the text, Validate checks the required columns and Normalize
// types the cells. Each step returns new values and never mutates its input.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"croracle/internal/core"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load parses comma-separated text into a table whose columns are the header
// fields in order. It fails closed: malformed input returns a *core.ParseError
// and no table.
func Load(r io.Reader) (*core.Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = 0 // every row must match the header width
	cr.LazyQuotes = true   // descriptions may carry a bare quote, as in `Buy 5" BTC`

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &core.ParseError{Err: core.ErrEmptyFile}
	}
	if err != nil {
		return nil, toParseError(err)
	}

	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if seen[name] {
			return nil, &core.ParseError{Line: 1, Err: fmt.Errorf("duplicate column %q", name)}
		}
		seen[name] = true
		columns[i] = name
	}

	t := &core.Table{Columns: columns}
	values := make(map[string]string, len(columns))
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toParseError(err)
		}
		for i, c := range columns {
			values[c] = record[i]
		}
		t.Rows = append(t.Rows, core.NewRow(values))
	}
	return t, nil
}

// LoadString is Load over an in-memory string.
func LoadString(s string) (*core.Table, error) {
	return Load(strings.NewReader(s))
}

func toParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &core.ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &core.ParseError{Err: err}
}
