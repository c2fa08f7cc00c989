package document

import (
	"strconv"
	"strings"
)

// ComputeTotals derives the totals breakdown from the line items and rate
// selection. It is pure: calling it twice on unchanged input yields
// identical output, and the result does not depend on item order.
//
// Quotations apply the compound tax only while a tax name is selected and
// subtract the discount. Invoices add PPN, subtract PPh (withholding) and
// report the down payment without subtracting it from the total.
func ComputeTotals(kind Kind, items []LineItem, rates RateSelection) Totals {
	var sub float64
	for _, item := range items {
		sub += item.Price
	}

	totals := Totals{SubTotal: sub}
	switch kind {
	case KindInvoice:
		totals.PPNAmount = sub * rates.PPNRate
		totals.PPHAmount = sub * rates.PPHRate
		totals.DownPayment = sub * rates.PaymentPercentage
		totals.Total = sub + totals.PPNAmount - totals.PPHAmount
	default:
		if rates.TaxName != nil {
			totals.TaxAmount = sub * rates.TaxRate
		}
		totals.Total = sub + totals.TaxAmount - rates.DiscountAmount
	}
	return totals
}

// ParsePrice coerces a raw price value the way hydrated form data is
// treated: unparsable or missing values become 0, never an error.
func ParsePrice(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}
