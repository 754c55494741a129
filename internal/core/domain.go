package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of a Crypto.com app transaction export.
const (
	ColTimestamp      = "Timestamp (UTC)"
	ColKind           = "Transaction Kind"
	ColDescription    = "Transaction Description"
	ColNativeCurrency = "Native Currency"
	ColNativeAmount   = "Native Amount"
	ColNativeUSD      = "Native Amount (in USD)"

	// ColYearMonth is derived during normalization, never read from the file.
	ColYearMonth = "YearMonth"
)

// RequiredColumns lists the columns every uploaded file must carry.
var RequiredColumns = []string{
	ColTimestamp,
	ColKind,
	ColDescription,
	ColNativeCurrency,
	ColNativeAmount,
	ColNativeUSD,
}

const (
	KindPurchase      Kind = "crypto_purchase"
	KindEarnInterest  Kind = "crypto_earn_interest_paid"
	KindReimbursement Kind = "reimbursement"
	KindStakeReward   Kind = "mco_stake_reward"
	KindCardCashback  Kind = "referral_card_cashback"
	KindReferralGift  Kind = "referral_gift"
)

type (
	// Kind is the value of the Transaction Kind column.
	Kind string

	// Row is a single data line keyed by header name. Values are raw cell text.
	Row struct {
		values map[string]string
	}

	// Table is a parsed CSV file: the header columns in file order and the rows in input order.
	Table struct {
		Columns []string
		Rows    []Row
	}

	// Transaction is a normalized row: typed amounts and a calendar date.
	Transaction struct {
		Row         int // 1-based data row, header excluded
		Date        time.Time
		YearMonth   time.Time
		Kind        Kind
		Description string
		Currency    string
		Native      decimal.Decimal
		USD         decimal.Decimal
	}
)

// EarningKinds is the earnings set in breakdown display order.
var EarningKinds = []Kind{
	KindCardCashback,
	KindStakeReward,
	KindEarnInterest,
	KindReimbursement,
	KindReferralGift,
}

// NewRow copies values into a new immutable row.
func NewRow(values map[string]string) Row {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Row{values: cp}
}

// Get returns the cell for column and whether the column exists.
func (r Row) Get(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Value returns the cell for column, or "" when absent.
func (r Row) Value(column string) string {
	return r.values[column]
}

// HasColumn reports whether the table header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// IsPurchase reports whether k is counted as a purchase.
func (k Kind) IsPurchase() bool {
	return k == KindPurchase
}

// IsEarning reports whether k belongs to the earnings set.
func (k Kind) IsEarning() bool {
	for _, e := range EarningKinds {
		if k == e {
			return true
		}
	}
	return false
}

// Title returns the display label of an earnings kind. Unknown kinds keep their raw label.
func (k Kind) Title() string {
	switch k {
	case KindCardCashback:
		return "Card cashback"
	case KindStakeReward:
		return "Stake rewards"
	case KindEarnInterest:
		return "Earn"
	case KindReimbursement:
		return "Reimbursement"
	case KindReferralGift:
		return "Referral Gift"
	default:
		return string(k)
	}
}

// Field returns the grouping value of t for column. ok is false for columns
// that cannot be used as a grouping key.
func (t Transaction) Field(column string) (value string, ok bool) {
	switch column {
	case ColKind:
		return string(t.Kind), true
	case ColDescription:
		return t.Description, true
	case ColNativeCurrency:
		return t.Currency, true
	case ColYearMonth:
		return t.YearMonth.Format(DateLayout), true
	case ColTimestamp:
		return t.Date.Format(DateLayout), true
	default:
		return "", false
	}
}
