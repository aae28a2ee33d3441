package paymentsync

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeedDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-14 10:32:00", time.Date(2026, 8, 14, 10, 32, 0, 0, time.UTC)},
		{"2026-08-14", time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)},
		{"2026-08-14T10:32:00Z", time.Date(2026, 8, 14, 10, 32, 0, 0, time.UTC)},
		{"  2026-08-14  ", time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := parseFeedDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "parseFeedDate(%q) = %v", tc.in, got)
	}
}

func TestParseFeedDateRejectsOtherFormats(t *testing.T) {
	for _, in := range []string{"", "14/08/2026", "Aug 14 2026", "garbage"} {
		_, err := parseFeedDate(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeTrimsInvoiceNumber(t *testing.T) {
	rec := PaymentRecord{
		InvoiceNumber: "  INV-42  ",
		NetAmount:     decimal.RequireFromString("10"),
		Date:          "2026-08-14",
	}
	number, date, err := rec.normalize()
	require.NoError(t, err)
	assert.Equal(t, "INV-42", number)
	assert.Equal(t, 2026, date.Year())
}

func TestNormalizeRejectsBlankInvoiceNumber(t *testing.T) {
	rec := PaymentRecord{InvoiceNumber: "   ", Date: "2026-08-14"}
	_, _, err := rec.normalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing invoice number")
}
