package stats

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"croracle/internal/core"
)

// Variant selects the shape of an aggregation.
type Variant int

const (
	// VariantTotal sums the whole subset into one group.
	VariantTotal Variant = iota
	// VariantGrouped sums per distinct combination of Query.GroupBy values.
	VariantGrouped
	// VariantTimeline sums per month bucket, ascending.
	VariantTimeline
	// VariantPerCategory sums each of Query.Kinds separately, in the given order.
	VariantPerCategory
)

var (
	ErrUnknownVariant = errors.New("unknown aggregation variant")
	ErrUnknownColumn  = errors.New("column cannot be used as a grouping key")
	ErrNoGroupColumns = errors.New("grouped aggregation needs at least one column")
)

func (v Variant) String() string {
	switch v {
	case VariantTotal:
		return "total"
	case VariantGrouped:
		return "grouped"
	case VariantTimeline:
		return "timeline"
	case VariantPerCategory:
		return "per_category"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Query describes one aggregation over a subset.
type Query struct {
	Variant Variant
	GroupBy []string
	Kinds   []core.Kind
}

// Group is one output row: the key values in GroupBy order and the sums.
type Group struct {
	Key   []string
	Month time.Time // set by VariantTimeline
	// Synthetic marks the zero row produced for an empty subset.
	Synthetic bool
	core.Amount
}

// Result is the ordered output of Aggregate.
type Result []Group

// Sum adds every group of r.
func (r Result) Sum() core.Amount {
	sum := zeroAmount()
	for _, g := range r {
		sum.Native = sum.Native.Add(g.Native)
		sum.USD = sum.USD.Add(g.USD)
	}
	return sum
}

// Real returns r without the synthetic zero row.
func (r Result) Real() Result {
	out := make(Result, 0, len(r))
	for _, g := range r {
		if !g.Synthetic {
			out = append(out, g)
		}
	}
	return out
}

// Aggregate sums the Native Amount and Native Amount (in USD) of txs as q
// describes. Only key combinations present in txs are returned.
//
// An empty txs never yields an empty result for the total and grouped
// variants: a single synthetic zero group stands in, so callers can always
// read one pair. The per-category variant returns one group per kind, zero
// for absent kinds, and the timeline of an empty subset is empty.
func Aggregate(txs []core.Transaction, q Query) (Result, error) {
	switch q.Variant {
	case VariantTotal:
		return total(txs), nil
	case VariantGrouped:
		return grouped(txs, q.GroupBy)
	case VariantTimeline:
		return timeline(txs), nil
	case VariantPerCategory:
		return perCategory(txs, q.Kinds)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, q.Variant)
	}
}

func zeroAmount() core.Amount {
	return core.Amount{Native: decimal.Zero, USD: decimal.Zero}
}

func zeroResult() Result {
	return Result{{Synthetic: true, Amount: zeroAmount()}}
}

func total(txs []core.Transaction) Result {
	if len(txs) == 0 {
		return zeroResult()
	}
	sum := zeroAmount()
	for _, tx := range txs {
		sum.Native = sum.Native.Add(tx.Native)
		sum.USD = sum.USD.Add(tx.USD)
	}
	return Result{{Amount: sum}}
}

func grouped(txs []core.Transaction, columns []string) (Result, error) {
	if len(columns) == 0 {
		return nil, ErrNoGroupColumns
	}
	for _, c := range columns {
		if _, ok := (core.Transaction{}).Field(c); !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
	}
	if len(txs) == 0 {
		return zeroResult(), nil
	}

	index := make(map[string]int)
	var out Result
	for _, tx := range txs {
		key := make([]string, len(columns))
		for i, c := range columns {
			key[i], _ = tx.Field(c)
		}
		id := strings.Join(key, "\x1f")

		pos, ok := index[id]
		if !ok {
			pos = len(out)
			index[id] = pos
			out = append(out, Group{Key: key, Month: tx.YearMonth, Amount: zeroAmount()})
		}
		out[pos].Native = out[pos].Native.Add(tx.Native)
		out[pos].USD = out[pos].USD.Add(tx.USD)
	}
	return out, nil
}

func timeline(txs []core.Transaction) Result {
	if len(txs) == 0 {
		return Result{}
	}
	out, _ := grouped(txs, []string{core.ColYearMonth})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})
	return out
}

// perCategory always returns one keyed group per kind. Synthetic marks kinds
// absent from txs; no kinds gives an empty result.
func perCategory(txs []core.Transaction, kinds []core.Kind) (Result, error) {
	out := make(Result, 0, len(kinds))
	for _, kind := range kinds {
		subset := ByKind(txs, kind)
		g, err := grouped(subset, []string{core.ColKind, core.ColDescription})
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", kind, err)
		}
		out = append(out, Group{
			Key:       []string{string(kind)},
			Synthetic: len(subset) == 0,
			Amount:    g.Sum(),
		})
	}
	return out, nil
}
