// Package core holds the domain types shared by the loader, the stats
// composer and the presentation layer.
//
// This file contains amount parsing and the date helpers used for
// month bucketing.
package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for grouping keys and display.
const DateLayout = "2006-01-02"

// DefaultPlaces is the number of decimals presentation totals are rounded to.
const DefaultPlaces int32 = 2

// MaxExponent bounds the decimal exponent of a parsed amount in both
// directions. 1e18 and 1e-18 are accepted, 1e19 is not.
const MaxExponent int32 = 18

// ParseAmount converts a cell of an amount column to a decimal.
//
// Surrounding whitespace is ignored and an empty cell is zero, so blank
// amounts do not contribute to sums. Both "12.34" and "-0.5" are accepted;
// thousands separators and currency symbols are not. Values whose exponent
// lies outside ±MaxExponent are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Decimal{}, fmt.Errorf("amount %q out of range", s)
	}
	return d, nil
}

// RoundAmount rounds d to places decimals, half away from zero
// (10.005 -> 10.01, -10.005 -> -10.01).
func RoundAmount(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundToTotal rounds each of parts to places decimals so that the rounded
// parts add up to the rounded sum of parts. Units left over by independent
// rounding go to the parts with the largest remainder, earliest first.
func RoundToTotal(parts []decimal.Decimal, places int32) []decimal.Decimal {
	out := make([]decimal.Decimal, len(parts))
	raw, rounded := decimal.Zero, decimal.Zero
	for i, p := range parts {
		out[i] = RoundAmount(p, places)
		raw = raw.Add(p)
		rounded = rounded.Add(out[i])
	}
	if len(parts) == 0 {
		return out
	}

	unit := decimal.New(1, -places)
	steps := RoundAmount(raw, places).Sub(rounded).Div(unit).IntPart()
	if steps == 0 {
		return out
	}
	if steps < 0 {
		unit = unit.Neg()
		steps = -steps
	}

	// remainder in the direction of the correction
	remainder := func(i int) decimal.Decimal {
		r := parts[i].Sub(out[i])
		if unit.IsNegative() {
			return r.Neg()
		}
		return r
	}
	order := make([]int, len(parts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainder(order[a]).GreaterThan(remainder(order[b]))
	})
	for n := int64(0); n < steps; n++ {
		i := order[n%int64(len(order))]
		out[i] = out[i].Add(unit)
	}
	return out
}

// TruncateToDate drops the time of day of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthBucket returns the first day of the month containing date.
func MonthBucket(date time.Time) time.Time {
	y, m, _ := date.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
