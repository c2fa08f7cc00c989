package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestComputeTotalsQuotationNoTaxNoDiscount(t *testing.T) {
	items := []LineItem{
		{ID: "a", Name: "Audit", Price: 100000},
		{ID: "b", Name: "Report", Price: 50000},
	}

	totals := ComputeTotals(KindQuotation, items, RateSelection{})

	assert.Equal(t, 150000.0, totals.SubTotal)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 150000.0, totals.Total)
}

func TestComputeTotalsInvoicePPNAndPPH(t *testing.T) {
	items := []LineItem{
		{ID: "a", Name: "Consulting", Price: 600000},
		{ID: "b", Name: "Training", Price: 400000},
	}
	rates := RateSelection{PPNRate: 0.11, PPHRate: 0.02}

	totals := ComputeTotals(KindInvoice, items, rates)

	assert.Equal(t, 1000000.0, totals.SubTotal)
	assert.Equal(t, 110000.0, totals.PPNAmount)
	assert.Equal(t, 20000.0, totals.PPHAmount)
	assert.Equal(t, 1090000.0, totals.Total)
}

func TestComputeTotalsQuotationDiscountOnly(t *testing.T) {
	items := []LineItem{{ID: "a", Name: "Design", Price: 500000}}
	rates := RateSelection{DiscountEnabled: true, DiscountAmount: 50000}

	totals := ComputeTotals(KindQuotation, items, rates)

	assert.Equal(t, 500000.0, totals.SubTotal)
	assert.Equal(t, 0.0, totals.TaxAmount)
	assert.Equal(t, 450000.0, totals.Total)
}

func TestComputeTotalsQuotationTaxRequiresName(t *testing.T) {
	items := []LineItem{{ID: "a", Name: "Design", Price: 200000}}

	// A rate without a selected name must not apply.
	unnamed := ComputeTotals(KindQuotation, items, RateSelection{TaxRate: 0.11})
	assert.Equal(t, 0.0, unnamed.TaxAmount)
	assert.Equal(t, 200000.0, unnamed.Total)

	named := ComputeTotals(KindQuotation, items, RateSelection{TaxName: strPtr("PPN 11%"), TaxRate: 0.11})
	assert.Equal(t, 22000.0, named.TaxAmount)
	assert.Equal(t, 222000.0, named.Total)
}

func TestComputeTotalsDownPaymentInformational(t *testing.T) {
	items := []LineItem{{ID: "a", Name: "Install", Price: 1000000}}
	rates := RateSelection{PPNRate: 0.11, PaymentPercentage: 0.5}

	totals := ComputeTotals(KindInvoice, items, rates)

	assert.Equal(t, 500000.0, totals.DownPayment)
	// Down payment is reported but never subtracted from the total.
	assert.Equal(t, 1110000.0, totals.Total)
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	totals := ComputeTotals(KindInvoice, nil, RateSelection{PPNRate: 0.11, PPHRate: 0.02, PaymentPercentage: 1})
	assert.Equal(t, Totals{}, totals)
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	a := []LineItem{
		{ID: "1", Price: 125000},
		{ID: "2", Price: 75000},
		{ID: "3", Price: -25000},
	}
	b := []LineItem{a[2], a[0], a[1]}
	rates := RateSelection{TaxName: strPtr("PPN 11%"), TaxRate: 0.11}

	assert.Equal(t, ComputeTotals(KindQuotation, a, rates), ComputeTotals(KindQuotation, b, rates))
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []LineItem{{ID: "a", Price: 333333.33}, {ID: "b", Price: 666666.67}}
	rates := RateSelection{PPNRate: 0.11, PPHRate: 0.02, PaymentPercentage: 0.3}

	first := ComputeTotals(KindInvoice, items, rates)
	second := ComputeTotals(KindInvoice, items, rates)

	assert.Equal(t, first, second)
}

func TestComputeTotalsNegativePriceAccepted(t *testing.T) {
	items := []LineItem{
		{ID: "a", Price: 100000},
		{ID: "b", Name: "Adjustment", Price: -40000},
	}

	totals := ComputeTotals(KindQuotation, items, RateSelection{})

	assert.Equal(t, 60000.0, totals.SubTotal)
	assert.Equal(t, 60000.0, totals.Total)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"150000", 150000},
		{" 150000.50 ", 150000.50},
		{"-2500", -2500},
		{"", 0},
		{"abc", 0},
		{"12,5", 0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParsePrice(tc.raw), "raw=%q", tc.raw)
	}
}
