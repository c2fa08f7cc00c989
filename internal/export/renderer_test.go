package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertas-app/kertas/internal/document"
)

func quotationDraft(t *testing.T) *document.Draft {
	t.Helper()
	d := document.NewDraft(document.KindQuotation)
	number := "QT-0042"
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	d.SetFields(document.Patch{
		Number: &number,
		Date:   &date,
		Tax:    &document.TaxOption{Name: "PPN 11%", Rate: 0.11},
	})
	d.ApplyParty(document.PartyClient, 7, "PT Maju Jaya", "Jl. Sudirman 10")
	require.NoError(t, d.AddItem(document.ItemInput{Name: "Audit SPT", Qualifier: "5 hari kerja", Price: "200000"}))
	return d
}

func TestBuildViewModelQuotation(t *testing.T) {
	vm := BuildViewModel(quotationDraft(t))

	assert.Equal(t, "Quotation", vm.Title)
	assert.Equal(t, "QT-0042", vm.Number)
	require.Len(t, vm.Rows, 1)
	assert.Equal(t, 1, vm.Rows[0].No)
	assert.True(t, vm.Totals.ShowTax)
	assert.Equal(t, "PPN 11%", vm.Totals.TaxLabel)
	assert.Equal(t, 22000.0, vm.Totals.TaxAmount)
	assert.Equal(t, 222000.0, vm.Totals.Total)
	assert.False(t, vm.Totals.ShowDiscount)
}

func TestBuildViewModelInvoiceDownPayment(t *testing.T) {
	d := document.NewDraft(document.KindInvoice)
	require.NoError(t, d.AddItem(document.ItemInput{Name: "Install", Price: "1000000"}))
	half := 0.5
	d.SetFields(document.Patch{
		PPN:               &document.TaxOption{Name: "PPN 11%", Rate: 0.11},
		PPH:               &document.TaxOption{Name: "PPh 23", Rate: 0.02},
		PaymentPercentage: &half,
	})

	vm := BuildViewModel(d)

	assert.Equal(t, "Invoice", vm.Title)
	assert.Equal(t, 110000.0, vm.Totals.PPNAmount)
	assert.Equal(t, 20000.0, vm.Totals.PPHAmount)
	assert.True(t, vm.Totals.ShowDownPayment)
	assert.Equal(t, 500000.0, vm.Totals.DownPayment)
	assert.Equal(t, 1090000.0, vm.Totals.Total)
}

func TestRendererQuotation(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	html, err := renderer.Render(BuildViewModel(quotationDraft(t)))
	require.NoError(t, err)

	assert.Contains(t, html, "QT-0042")
	assert.Contains(t, html, "PT Maju Jaya")
	assert.Contains(t, html, "Audit SPT")
	assert.Contains(t, html, "PPN 11%")
	assert.Contains(t, html, "10 February 2026")
	// The print layout carries no interactive controls.
	assert.NotContains(t, html, "<button")
	assert.NotContains(t, html, "<input")
}

func TestRendererUnknownKind(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	_, err = renderer.Render(ViewModel{Kind: document.Kind("receipt")})
	assert.ErrorIs(t, err, document.ErrInvalidKind)
}

func TestRendererInvoice(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	d := document.NewDraft(document.KindInvoice)
	require.NoError(t, d.AddItem(document.ItemInput{Name: "Training", Price: "400000"}))
	html, err := renderer.Render(BuildViewModel(d))
	require.NoError(t, err)

	assert.Contains(t, html, "Invoice")
	assert.Contains(t, html, "Training")
	assert.False(t, strings.Contains(html, "Down payment"), "zero down payment must be omitted")
}
