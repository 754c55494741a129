package table

import (
	"strings"
	"time"

	"croracle/internal/core"
)

// timestampLayouts are tried in order. Exports use the first one.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	core.DateLayout,
	"01/02/2006 15:04",
}

// ParseTimestamp reads a timestamp cell. Values without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// Normalize types the rows of a validated table: the timestamp becomes a
// calendar date with its month bucket, and both amount columns become
// decimals. The table itself is left untouched.
func Normalize(t *core.Table) ([]core.Transaction, error) {
	txs := make([]core.Transaction, 0, len(t.Rows))
	for i, row := range t.Rows {
		n := i + 1

		raw := row.Value(core.ColTimestamp)
		ts, ok := ParseTimestamp(raw)
		if !ok {
			return nil, &core.DateParseError{Row: n, Value: raw}
		}
		date := core.TruncateToDate(ts)

		native, err := core.ParseAmount(row.Value(core.ColNativeAmount))
		if err != nil {
			return nil, &core.AmountParseError{Row: n, Column: core.ColNativeAmount, Value: row.Value(core.ColNativeAmount), Err: err}
		}
		usd, err := core.ParseAmount(row.Value(core.ColNativeUSD))
		if err != nil {
			return nil, &core.AmountParseError{Row: n, Column: core.ColNativeUSD, Value: row.Value(core.ColNativeUSD), Err: err}
		}

		txs = append(txs, core.Transaction{
			Row:         n,
			Date:        date,
			YearMonth:   core.MonthBucket(date),
			Kind:        core.Kind(strings.TrimSpace(row.Value(core.ColKind))),
			Description: row.Value(core.ColDescription),
			Currency:    strings.TrimSpace(row.Value(core.ColNativeCurrency)),
			Native:      native,
			USD:         usd,
		})
	}
	return txs, nil
}
