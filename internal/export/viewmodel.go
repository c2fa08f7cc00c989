// Package export renders a draft into its print layout and converts it to
// a PDF artifact.
package export

import (
	"time"

	"github.com/kertas-app/kertas/internal/document"
)

// Row is one printable line-item row.
type Row struct {
	No        int
	Name      string
	Qualifier string
	Price     float64
}

// TotalsView is the printable totals breakdown. Optional components carry
// a Show flag so the layout can omit unused rows entirely.
type TotalsView struct {
	SubTotal float64

	TaxLabel  string
	TaxAmount float64
	ShowTax   bool

	DiscountAmount float64
	ShowDiscount   bool

	PPNLabel  string
	PPNAmount float64
	PPHLabel  string
	PPHAmount float64

	DownPayment     float64
	ShowDownPayment bool

	Total float64
}

// ViewModel aggregates everything the print layout needs. It carries no
// interactive state: the exported artifact is display-only by
// construction.
type ViewModel struct {
	Kind       document.Kind
	Title      string
	Number     string
	Date       *time.Time
	ValidUntil *time.Time

	PartyName     string
	PartyAddress  string
	ContactPerson string
	Email         string
	Phone         string
	Position      string

	Subject      string
	PaymentTerms string
	Note         string

	Rows   []Row
	Totals TotalsView
}

// BuildViewModel snapshots a draft into its print form.
func BuildViewModel(d *document.Draft) ViewModel {
	vm := ViewModel{
		Kind:          d.Kind,
		Title:         title(d.Kind),
		Number:        d.State.Number,
		Date:          d.State.Date,
		ValidUntil:    d.State.ValidUntil,
		PartyName:     d.State.PartyName,
		PartyAddress:  d.State.PartyAddress,
		ContactPerson: d.State.ContactPerson,
		Email:         d.State.Email,
		Phone:         d.State.Phone,
		Position:      d.State.Position,
		Subject:       d.State.Subject,
		PaymentTerms:  d.State.PaymentTerms,
		Note:          d.State.Note,
	}

	for i, item := range d.State.Items {
		vm.Rows = append(vm.Rows, Row{
			No:        i + 1,
			Name:      item.Name,
			Qualifier: item.Qualifier,
			Price:     item.Price,
		})
	}

	rates := d.State.Rates
	totals := d.Totals
	vm.Totals = TotalsView{
		SubTotal: totals.SubTotal,
		Total:    totals.Total,
	}
	switch d.Kind {
	case document.KindInvoice:
		vm.Totals.PPNLabel = rates.PPNName
		vm.Totals.PPNAmount = totals.PPNAmount
		vm.Totals.PPHLabel = rates.PPHName
		vm.Totals.PPHAmount = totals.PPHAmount
		vm.Totals.DownPayment = totals.DownPayment
		vm.Totals.ShowDownPayment = rates.PaymentPercentage > 0
	default:
		if rates.TaxName != nil {
			vm.Totals.TaxLabel = *rates.TaxName
			vm.Totals.TaxAmount = totals.TaxAmount
			vm.Totals.ShowTax = true
		}
		if rates.DiscountEnabled {
			vm.Totals.DiscountAmount = rates.DiscountAmount
			vm.Totals.ShowDiscount = true
		}
	}
	return vm
}

func title(kind document.Kind) string {
	if kind == document.KindInvoice {
		return "Invoice"
	}
	return "Quotation"
}
