package table

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"croracle/internal/core"
)

const header = "Timestamp (UTC),Transaction Description,Currency,Amount,To Currency,To Amount,Native Currency,Native Amount,Native Amount (in USD),Transaction Kind\n"

func TestLoadKeepsHeaderAndRowOrder(t *testing.T) {
	csv := header +
		"2021-03-02 10:00:00,Buy BTC,BTC,0.001,,,EUR,50,60,crypto_purchase\n" +
		"2021-03-01 09:00:00,Buy ETH,ETH,0.01,,,EUR,20,24,crypto_purchase\n"

	tbl, err := LoadString(csv)
	require.NoError(t, err)

	assert.Equal(t, 10, len(tbl.Columns))
	assert.Equal(t, core.ColTimestamp, tbl.Columns[0])
	assert.Equal(t, core.ColKind, tbl.Columns[9])
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Buy BTC", tbl.Rows[0].Value(core.ColDescription))
	assert.Equal(t, "Buy ETH", tbl.Rows[1].Value(core.ColDescription))
}

func TestLoadStripsBOM(t *testing.T) {
	tbl, err := LoadString("\ufeff" + header)
	require.NoError(t, err)
	assert.True(t, tbl.HasColumn(core.ColTimestamp))
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadAcceptsStrayQuote(t *testing.T) {
	tbl, err := LoadString(header + "2021-03-02 10:00:00,Buy 5\" BTC,BTC,0.001,,,EUR,50,60,crypto_purchase\n")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "Buy 5\" BTC", tbl.Rows[0].Value(core.ColDescription))
	assert.Equal(t, "EUR", tbl.Rows[0].Value(core.ColNativeCurrency))
}

func TestLoadFailures(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"ragged row":       "a,b,c\n1,2\n",
		"duplicate header": "a,a\n1,2\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			tbl, err := LoadString(in)
			assert.Nil(t, tbl)
			var pe *core.ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
		})
	}
}

func TestValidate(t *testing.T) {
	tbl, err := LoadString(header)
	require.NoError(t, err)

	got, err := Validate(tbl)
	require.NoError(t, err)
	assert.Same(t, tbl, got)

	noCurrency := strings.Replace(header, "Native Currency,", "", 1)
	tbl, err = LoadString(noCurrency)
	require.NoError(t, err)

	_, err = Validate(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrFileMissingColumn))
	assert.Equal(t, "Missing required columns from given file.", err.Error())

	var mce *core.MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{core.ColNativeCurrency}, mce.Missing)
}

func TestValidateIgnoresOrder(t *testing.T) {
	tbl, err := LoadString("Native Amount (in USD),Native Amount,Native Currency,Transaction Description,Transaction Kind,Timestamp (UTC)\n")
	require.NoError(t, err)
	_, err = Validate(tbl)
	assert.NoError(t, err)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2021-03-15 13:45:10",
		"2021-03-15T13:45:10Z",
		"2021-03-15T13:45:10",
		"2021-03-15 13:45",
		"2021-03-15",
		"03/15/2021 13:45",
	} {
		ts, ok := ParseTimestamp(in)
		require.True(t, ok, in)
		assert.Equal(t, want, core.TruncateToDate(ts), in)
	}

	for _, in := range []string{"", "yesterday", "2021-13-40 00:00:00"} {
		_, ok := ParseTimestamp(in)
		assert.False(t, ok, in)
	}
}

func TestNormalize(t *testing.T) {
	csv := header +
		"2021-03-15 23:59:59,Buy BTC,BTC,0.001,,,EUR,10.005,11.00,crypto_purchase\n" +
		"2021-04-01 00:00:01,Card Cashback,CRO,1,,,EUR,,0.5,referral_card_cashback\n"
	tbl, err := LoadString(csv)
	require.NoError(t, err)

	txs, err := Normalize(tbl)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	first := txs[0]
	assert.Equal(t, 1, first.Row)
	assert.Equal(t, "2021-03-15", first.Date.Format(core.DateLayout))
	assert.Equal(t, "2021-03-01", first.YearMonth.Format(core.DateLayout))
	assert.Equal(t, core.KindPurchase, first.Kind)
	assert.Equal(t, "EUR", first.Currency)
	assert.True(t, first.Native.Equal(decimal.RequireFromString("10.005")))
	assert.True(t, first.USD.Equal(decimal.RequireFromString("11")))

	second := txs[1]
	assert.Equal(t, "2021-04-01", second.YearMonth.Format(core.DateLayout))
	assert.True(t, second.Native.IsZero(), "blank amount counts as zero")

	// input table untouched
	assert.Equal(t, "2021-03-15 23:59:59", tbl.Rows[0].Value(core.ColTimestamp))
	assert.False(t, tbl.HasColumn(core.ColYearMonth))
}

func TestNormalizeBadTimestamp(t *testing.T) {
	csv := header +
		"2021-03-15 10:00:00,Buy BTC,BTC,0.001,,,EUR,1,1,crypto_purchase\n" +
		"not a date,Buy BTC,BTC,0.001,,,EUR,1,1,crypto_purchase\n"
	tbl, err := LoadString(csv)
	require.NoError(t, err)

	txs, err := Normalize(tbl)
	assert.Nil(t, txs)
	var de *core.DateParseError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Row)
	assert.Equal(t, "not a date", de.Value)
}

func TestNormalizeBadAmount(t *testing.T) {
	csv := header + "2021-03-15 10:00:00,Buy BTC,BTC,0.001,,,EUR,1,lots,crypto_purchase\n"
	tbl, err := LoadString(csv)
	require.NoError(t, err)

	_, err = Normalize(tbl)
	var ae *core.AmountParseError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, core.ColNativeUSD, ae.Column)
	assert.Equal(t, 1, ae.Row)
}
