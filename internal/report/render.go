package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders reports in the given format.
func Write(w io.Writer, format string, places int32, reports []FileReport) error {
	switch format {
	case FormatText:
		return WriteText(w, places, reports)
	case FormatJSON:
		return WriteJSON(w, reports)
	default:
		return fmt.Errorf("unknown format %q: must be %s or %s", format, FormatText, FormatJSON)
	}
}

// WriteJSON writes reports as an indented JSON array.
func WriteJSON(w io.Writer, reports []FileReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteText writes one block per report.
func WriteText(w io.Writer, places int32, reports []FileReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fixed := func(d decimal.Decimal) string { return d.StringFixed(places) }

	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s\n", r.Path)
		if r.Err != nil {
			fmt.Fprintf(tw, "error: %s\n", r.Error)
			continue
		}

		b := r.Bundle
		fmt.Fprintf(tw, "\t\t%s\tUSD\n", b.NativeCurrency)
		fmt.Fprintf(tw, "%s\t\t%s\t%s\n", b.TotalPurchases.Label, fixed(b.TotalPurchases.Native), fixed(b.TotalPurchases.USD))
		fmt.Fprintf(tw, "%s\t\t%s\t%s\n", b.TotalEarnings.Label, fixed(b.TotalEarnings.Native), fixed(b.TotalEarnings.USD))
		for _, c := range b.EarningsBreakDown {
			fmt.Fprintf(tw, "\t%s\t%s\t%s\n", c.Title, fixed(c.Native), fixed(c.USD))
		}
		fmt.Fprintf(tw, "rows: %d (%d purchases, %d earnings, %d ignored)\n",
			b.Counts.Rows, b.Counts.Purchases, b.Counts.Earnings, b.Counts.Ignored)
		if len(b.CurrencyMismatch) > 0 {
			fmt.Fprintf(tw, "warning: rows in %v were summed as %s\n", b.CurrencyMismatch, b.NativeCurrency)
		}
	}
	return tw.Flush()
}
