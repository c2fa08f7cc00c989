// Package rates serves the tax rate catalogs documents pick their
// compound tax options from.
package rates

// Kind separates the catalogs: PPN (value added, applied on top of the
// subtotal), PPh (withholding, subtracted) and the inline quotation
// options.
type Kind string

const (
	KindPPN       Kind = "ppn"
	KindPPH       Kind = "pph"
	KindQuotation Kind = "quotation"
)

// IsValid checks if the kind is known.
func (k Kind) IsValid() bool {
	switch k {
	case KindPPN, KindPPH, KindQuotation:
		return true
	default:
		return false
	}
}

// Rate is one selectable tax option. Name and Rate travel together so a
// rate can never display under the wrong label.
type Rate struct {
	ID   int64   `json:"id"`
	Kind Kind    `json:"kind"`
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}
