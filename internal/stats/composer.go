// Package stats computes the purchase and earnings figures of an uploaded
// transaction export.
//
// Composer is the entry point for the presentation layer. It is stateless:
// every call builds its own transactions and bundle, so one Composer can
// serve concurrent uploads.
package stats

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"croracle/internal/core"
	"croracle/internal/table"
)

// Options configures a Composer.
type Options struct {
	// Places is the number of decimals totals and breakdown figures are rounded to.
	Places int32
}

// DefaultOptions rounds to cents.
func DefaultOptions() Options {
	return Options{Places: core.DefaultPlaces}
}

// Composer runs the validate, normalize, partition and aggregate steps.
type Composer struct {
	opts Options
}

// NewComposer returns a Composer. A negative Places falls back to the default.
func NewComposer(opts Options) *Composer {
	if opts.Places < 0 {
		opts.Places = core.DefaultPlaces
	}
	return &Composer{opts: opts}
}

// Places returns the number of decimals figures are rounded to.
func (c *Composer) Places() int32 { return c.opts.Places }

// ComposeReader loads CSV text from r and composes its bundle.
func (c *Composer) ComposeReader(r io.Reader) (core.Bundle, error) {
	t, err := table.Load(r)
	if err != nil {
		return core.Bundle{}, err
	}
	return c.Compose(t)
}

// Compose returns the stats bundle of t. Input errors (missing columns, bad
// dates or amounts) are returned unchanged; anything else is wrapped in a
// *core.ProcessingError. No partial bundle is ever returned.
func (c *Composer) Compose(t *core.Table) (core.Bundle, error) {
	if t == nil {
		return core.Bundle{}, core.NewProcessingError(errors.New("nil table"))
	}
	validated, err := table.Validate(t)
	if err != nil {
		return core.Bundle{}, err
	}
	txs, err := table.Normalize(validated)
	if err != nil {
		return core.Bundle{}, err
	}

	currency, mismatch := nativeCurrency(txs)
	parts := Partition(txs)

	b := core.Bundle{
		NativeCurrency:   currency,
		CurrencyMismatch: mismatch,
		Counts: core.Counts{
			Rows:      len(txs),
			Purchases: len(parts.Purchases),
			Earnings:  len(parts.Earnings),
			Ignored:   parts.Dropped,
		},
	}
	if b.TotalPurchases, err = c.total("Purchases", currency, parts.Purchases); err != nil {
		return core.Bundle{}, wrap(err)
	}
	if b.TotalEarnings, err = c.total("Earnings", currency, parts.Earnings); err != nil {
		return core.Bundle{}, wrap(err)
	}
	if b.PurchaseGraphs, err = purchaseGraphs(parts.Purchases); err != nil {
		return core.Bundle{}, wrap(err)
	}
	if b.EarningsBreakDown, err = c.earningsBreakdown(parts.Earnings); err != nil {
		return core.Bundle{}, wrap(err)
	}
	if b.EarningGraphs, err = earningGraphs(parts.Earnings); err != nil {
		return core.Bundle{}, wrap(err)
	}
	return b, nil
}

func (c *Composer) round(a core.Amount) core.Amount {
	return core.Amount{
		Native: core.RoundAmount(a.Native, c.opts.Places),
		USD:    core.RoundAmount(a.USD, c.opts.Places),
	}
}

func (c *Composer) total(label, currency string, txs []core.Transaction) (core.Total, error) {
	res, err := Aggregate(txs, Query{Variant: VariantTotal})
	if err != nil {
		return core.Total{}, fmt.Errorf("%s total: %w", label, err)
	}
	return core.Total{Label: label, Currency: currency, Amount: c.round(res.Sum())}, nil
}

func (c *Composer) earningsBreakdown(txs []core.Transaction) ([]core.CategoryTotal, error) {
	res, err := Aggregate(txs, Query{Variant: VariantPerCategory, Kinds: core.EarningKinds})
	if err != nil {
		return nil, fmt.Errorf("earnings breakdown: %w", err)
	}
	natives := make([]decimal.Decimal, len(res))
	usds := make([]decimal.Decimal, len(res))
	for i, g := range res {
		natives[i], usds[i] = g.Native, g.USD
	}
	natives = core.RoundToTotal(natives, c.opts.Places)
	usds = core.RoundToTotal(usds, c.opts.Places)

	out := make([]core.CategoryTotal, 0, len(res))
	for i, g := range res {
		kind := core.Kind(g.Key[0])
		out = append(out, core.CategoryTotal{
			Kind:   kind,
			Title:  kind.Title(),
			Amount: core.Amount{Native: natives[i], USD: usds[i]},
		})
	}
	return out, nil
}

func purchaseGraphs(txs []core.Transaction) (core.PurchaseGraphs, error) {
	if len(txs) == 0 {
		return core.PurchaseGraphs{
			Empty:         true,
			ByDescription: []core.LabeledAmount{},
			Timeline:      []core.TimelinePoint{},
			Scatter:       []core.ScatterPoint{},
		}, nil
	}
	byDesc, err := Aggregate(txs, Query{Variant: VariantGrouped, GroupBy: []string{core.ColKind, core.ColDescription}})
	if err != nil {
		return core.PurchaseGraphs{}, fmt.Errorf("purchases by description: %w", err)
	}
	tl, err := Aggregate(txs, Query{Variant: VariantTimeline})
	if err != nil {
		return core.PurchaseGraphs{}, fmt.Errorf("purchases timeline: %w", err)
	}
	return core.PurchaseGraphs{
		ByDescription: labeled(byDesc, func(g Group) string { return g.Key[1] }),
		Timeline:      timelinePoints(tl),
		Scatter:       scatter(txs),
	}, nil
}

func earningGraphs(txs []core.Transaction) (core.EarningGraphs, error) {
	byKind, err := Aggregate(txs, Query{Variant: VariantGrouped, GroupBy: []string{core.ColKind}})
	if err != nil {
		return core.EarningGraphs{}, fmt.Errorf("earnings by kind: %w", err)
	}
	tl, err := Aggregate(txs, Query{Variant: VariantTimeline})
	if err != nil {
		return core.EarningGraphs{}, fmt.Errorf("earnings timeline: %w", err)
	}
	return core.EarningGraphs{
		ByKind:   labeled(byKind, func(g Group) string { return core.Kind(g.Key[0]).Title() }),
		Timeline: timelinePoints(tl),
		Scatter:  scatter(txs),
	}, nil
}

func labeled(res Result, label func(Group) string) []core.LabeledAmount {
	rows := res.Real()
	out := make([]core.LabeledAmount, 0, len(rows))
	for _, g := range rows {
		out = append(out, core.LabeledAmount{Label: label(g), Amount: g.Amount})
	}
	return out
}

func timelinePoints(res Result) []core.TimelinePoint {
	out := make([]core.TimelinePoint, 0, len(res))
	for _, g := range res {
		out = append(out, core.TimelinePoint{Month: g.Month, Amount: g.Amount})
	}
	return out
}

func scatter(txs []core.Transaction) []core.ScatterPoint {
	out := make([]core.ScatterPoint, 0, len(txs))
	for _, tx := range txs {
		out = append(out, core.ScatterPoint{
			Date:   tx.Date,
			Amount: tx.Native,
			Label:  tx.Description,
			Size:   tx.Native,
		})
	}
	return out
}

// nativeCurrency returns the currency of the first row and any other
// currencies found further down, in order of appearance.
func nativeCurrency(txs []core.Transaction) (string, []string) {
	if len(txs) == 0 {
		return "", nil
	}
	first := txs[0].Currency
	seen := map[string]bool{first: true}
	var others []string
	for _, tx := range txs[1:] {
		if !seen[tx.Currency] {
			seen[tx.Currency] = true
			others = append(others, tx.Currency)
		}
	}
	return first, others
}

func wrap(err error) error {
	if core.IsInputError(err) {
		return err
	}
	var pe *core.ProcessingError
	if errors.As(err, &pe) {
		return err
	}
	return core.NewProcessingError(err)
}
