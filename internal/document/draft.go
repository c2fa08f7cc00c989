package document

import (
	"time"

	"github.com/google/uuid"
)

// Draft is the in-progress document record for one editing session. All
// mutations go through its methods, each of which recomputes the totals
// synchronously so a reader never observes new items against a stale
// subtotal.
type Draft struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	State     State     `json:"state"`
	Hydration State     `json:"hydration"`
	Totals    Totals    `json:"totals"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch carries a partial field update. Nil members leave the current
// value untouched.
type Patch struct {
	Number     *string    `json:"number,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	Subject      *string `json:"subject,omitempty"`
	PaymentTerms *string `json:"payment_terms,omitempty"`
	Note         *string `json:"note,omitempty"`

	// Tax selects the quotation compound tax option; an empty name clears
	// the selection (rate forced to 0 with it).
	Tax *TaxOption `json:"tax,omitempty"`

	DiscountEnabled *bool    `json:"discount_enabled,omitempty"`
	DiscountAmount  *float64 `json:"discount_amount,omitempty"`

	PPN *TaxOption `json:"ppn,omitempty"`
	PPH *TaxOption `json:"pph,omitempty"`

	PaymentType       *PaymentType `json:"payment_type,omitempty"`
	PaymentPercentage *float64     `json:"payment_percentage,omitempty"`
}

// NewDraft creates an empty draft of the given kind.
func NewDraft(kind Kind) *Draft {
	now := time.Now()
	d := &Draft{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Hydration = d.State
	d.recompute()
	return d
}

// Hydrate creates a draft pre-filled from an existing record. The given
// state becomes the Reset snapshot.
func Hydrate(kind Kind, state State) *Draft {
	now := time.Now()
	d := &Draft{
		ID:        uuid.NewString(),
		Kind:      kind,
		State:     state,
		Hydration: state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.normalizeRates()
	d.recompute()
	return d
}

// SetFields merges a partial update into the draft and recomputes totals
// before returning.
func (d *Draft) SetFields(p Patch) {
	if p.Number != nil {
		d.State.Number = *p.Number
	}
	if p.Date != nil {
		date := *p.Date
		d.State.Date = &date
	}
	if p.ValidUntil != nil {
		until := *p.ValidUntil
		d.State.ValidUntil = &until
	}
	if p.Subject != nil {
		d.State.Subject = *p.Subject
	}
	if p.PaymentTerms != nil {
		d.State.PaymentTerms = *p.PaymentTerms
	}
	if p.Note != nil {
		d.State.Note = *p.Note
	}
	if p.Tax != nil {
		if p.Tax.Name == "" {
			d.State.Rates.TaxName = nil
			d.State.Rates.TaxRate = 0
		} else {
			name := p.Tax.Name
			d.State.Rates.TaxName = &name
			d.State.Rates.TaxRate = p.Tax.Rate
		}
	}
	if p.DiscountEnabled != nil {
		d.State.Rates.DiscountEnabled = *p.DiscountEnabled
	}
	if p.DiscountAmount != nil {
		d.State.Rates.DiscountAmount = *p.DiscountAmount
	}
	if p.PPN != nil {
		d.State.Rates.PPNName = p.PPN.Name
		d.State.Rates.PPNRate = p.PPN.Rate
	}
	if p.PPH != nil {
		d.State.Rates.PPHName = p.PPH.Name
		d.State.Rates.PPHRate = p.PPH.Rate
	}
	if p.PaymentType != nil {
		d.State.Rates.PaymentType = *p.PaymentType
		switch *p.PaymentType {
		case PaymentFull:
			d.State.Rates.PaymentPercentage = 1
		case PaymentDownPayment:
			d.State.Rates.PaymentPercentage = 0
		}
	}
	if p.PaymentPercentage != nil && d.State.Rates.PaymentType != PaymentFull {
		d.State.Rates.PaymentPercentage = *p.PaymentPercentage
	}
	d.normalizeRates()
	d.touch()
}

// ApplyPartyType switches the directory a party is picked from. The party
// id and every contact-derived field are cleared in the same update so
// stale data is never displayed against the new type.
func (d *Draft) ApplyPartyType(pt PartyType) {
	if d.State.Party.PartyType == pt {
		return
	}
	d.State.Party = PartyReference{PartyType: pt}
	d.State.PartyName = ""
	d.State.PartyAddress = ""
	d.clearContactFields()
	d.touch()
}

// ApplyParty selects a party and merges its resolved display fields.
// Contact state from any previous selection is cleared atomically with
// the new party id.
func (d *Draft) ApplyParty(pt PartyType, partyID int64, displayName, address string) {
	d.State.Party = PartyReference{PartyType: pt, PartyID: partyID}
	d.State.PartyName = displayName
	d.State.PartyAddress = address
	d.clearContactFields()
	d.touch()
}

// ApplyContact merges resolved contact fields for the currently selected
// party.
func (d *Draft) ApplyContact(contactID int64, person, email, phone, position string) error {
	if d.State.Party.PartyID == 0 {
		return ErrNoPartySelected
	}
	d.State.Party.ContactID = contactID
	d.State.ContactPerson = person
	d.State.Email = email
	d.State.Phone = phone
	d.State.Position = position
	d.touch()
	return nil
}

// AddItem appends a validated line item and recomputes totals. A rejected
// input leaves the collection unchanged.
func (d *Draft) AddItem(input ItemInput) error {
	items, err := AddItem(d.State.Items, input)
	if err != nil {
		return err
	}
	d.State.Items = items
	d.touch()
	return nil
}

// RemoveItem drops the line item with the given id and recomputes totals.
func (d *Draft) RemoveItem(id string) {
	d.State.Items = RemoveItem(d.State.Items, id)
	d.touch()
}

// Reset restores the draft to its hydration snapshot.
func (d *Draft) Reset() {
	d.State = d.Hydration
	d.normalizeRates()
	d.touch()
}

func (d *Draft) clearContactFields() {
	d.State.Party.ContactID = 0
	d.State.ContactPerson = ""
	d.State.Email = ""
	d.State.Phone = ""
	d.State.Position = ""
}

func (d *Draft) normalizeRates() {
	r := &d.State.Rates
	if !r.DiscountEnabled {
		r.DiscountAmount = 0
	}
	if r.TaxName == nil {
		r.TaxRate = 0
	}
	if r.PaymentPercentage < 0 {
		r.PaymentPercentage = 0
	}
	if r.PaymentPercentage > 1 {
		r.PaymentPercentage = 1
	}
}

func (d *Draft) touch() {
	d.recompute()
	d.UpdatedAt = time.Now()
}

func (d *Draft) recompute() {
	d.Totals = ComputeTotals(d.Kind, d.State.Items, d.State.Rates)
}
