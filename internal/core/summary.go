package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Amount is a native/USD pair of summed values.
type Amount struct {
	Native decimal.Decimal `json:"native"`
	USD    decimal.Decimal `json:"usd"`
}

// Total is a top-line figure (all purchases or all earnings).
type Total struct {
	Label    string `json:"label"`
	Currency string `json:"currency"`
	Amount
}

// CategoryTotal is one entry of the earnings breakdown.
type CategoryTotal struct {
	Kind  Kind   `json:"kind"`
	Title string `json:"title"`
	Amount
}

// LabeledAmount is a bar or pie slice.
type LabeledAmount struct {
	Label string `json:"label"`
	Amount
}

// TimelinePoint is the sum of one month bucket.
type TimelinePoint struct {
	Month time.Time `json:"month"`
	Amount
}

// ScatterPoint is one raw transaction of a point-cloud chart.
type ScatterPoint struct {
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Label  string          `json:"label"`
	Size   decimal.Decimal `json:"size"`
}

// PurchaseGraphs holds the chart series of the purchases section.
type PurchaseGraphs struct {
	Empty         bool            `json:"empty"`
	ByDescription []LabeledAmount `json:"by_description"`
	Timeline      []TimelinePoint `json:"timeline"`
	Scatter       []ScatterPoint  `json:"scatter"`
}

// EarningGraphs holds the chart series of the earnings section.
type EarningGraphs struct {
	ByKind   []LabeledAmount `json:"by_kind"`
	Timeline []TimelinePoint `json:"timeline"`
	Scatter  []ScatterPoint  `json:"scatter"`
}

// Counts reports how the rows of a file were partitioned.
type Counts struct {
	Rows      int `json:"rows"`
	Purchases int `json:"purchases"`
	Earnings  int `json:"earnings"`
	Ignored   int `json:"ignored"`
}

// Bundle is everything the presentation layer renders for one uploaded file.
type Bundle struct {
	NativeCurrency    string          `json:"native_currency"`
	CurrencyMismatch  []string        `json:"currency_mismatch,omitempty"`
	TotalPurchases    Total           `json:"total_purchases"`
	TotalEarnings     Total           `json:"total_earnings"`
	PurchaseGraphs    PurchaseGraphs  `json:"purchase_graphs"`
	EarningsBreakDown []CategoryTotal `json:"earnings_break_down"`
	EarningGraphs     EarningGraphs   `json:"earning_graphs"`
	Counts            Counts          `json:"counts"`
}
