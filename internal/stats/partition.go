package stats

import (
	"strings"

	"croracle/internal/core"
)

// Partitions splits transactions into the two aggregated subsets.
type Partitions struct {
	Purchases []core.Transaction
	Earnings  []core.Transaction
	// Dropped counts rows whose kind is neither a purchase nor an earning.
	Dropped int
}

// Partition returns the purchase and earnings subsets of txs in input order.
// Purchase descriptions lose every literal "Buy" so that "Buy BTC" groups as
// " BTC". Rows of any other kind are dropped. txs is not modified.
func Partition(txs []core.Transaction) Partitions {
	var p Partitions
	for _, tx := range txs {
		switch {
		case tx.Kind.IsPurchase():
			tx.Description = strings.ReplaceAll(tx.Description, "Buy", "")
			p.Purchases = append(p.Purchases, tx)
		case tx.Kind.IsEarning():
			p.Earnings = append(p.Earnings, tx)
		default:
			p.Dropped++
		}
	}
	return p
}

// ByKind returns the transactions of txs with the given kind.
func ByKind(txs []core.Transaction, kind core.Kind) []core.Transaction {
	var filtered []core.Transaction
	for _, tx := range txs {
		if tx.Kind == kind {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
