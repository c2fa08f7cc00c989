package invoice

import (
	"time"

	"github.com/kertas-app/kertas/internal/document"
)

// TaxSelection pairs a tax label with its rate so the two cannot be
// chosen independently.
type TaxSelection struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate" validate:"gte=0,lte=1"`
}

// FieldsRequest is the bulk field update for an invoice draft. Nil
// members leave the current value untouched.
type FieldsRequest struct {
	Number       *string `json:"number" validate:"omitempty,max=64"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Subject      *string `json:"subject" validate:"omitempty,max=255"`
	PaymentTerms *string `json:"payment_terms" validate:"omitempty,max=255"`
	Note         *string `json:"note"`

	PPN *TaxSelection `json:"ppn"`
	PPH *TaxSelection `json:"pph"`

	PaymentType       *string  `json:"payment_type" validate:"omitempty,oneof=full down_payment custom"`
	PaymentPercentage *float64 `json:"payment_percentage" validate:"omitempty,gte=0,lte=1"`
}

// ItemRequest adds one service row. Price arrives as a string and must
// parse as a number.
type ItemRequest struct {
	Name      string `json:"name" validate:"required,max=255"`
	Qualifier string `json:"qualifier" validate:"max=255"`
	Price     string `json:"price" validate:"required"`
}

// PartyTypeRequest switches the directory the party is picked from.
type PartyTypeRequest struct {
	PartyType string `json:"party_type" validate:"required,oneof=client lead"`
}

// PartyRequest selects the document counterpart.
type PartyRequest struct {
	PartyType string `json:"party_type" validate:"required,oneof=client lead"`
	PartyID   int64  `json:"party_id" validate:"required,gt=0"`
}

// ContactRequest selects a contact person within the current party.
type ContactRequest struct {
	ContactID int64 `json:"contact_id" validate:"required,gt=0"`
}

func (r FieldsRequest) toPatch() document.Patch {
	patch := document.Patch{
		Number:            r.Number,
		Subject:           r.Subject,
		PaymentTerms:      r.PaymentTerms,
		Note:              r.Note,
		PaymentPercentage: r.PaymentPercentage,
	}
	if r.Date != nil {
		patch.Date = parseDate(*r.Date)
	}
	if r.PPN != nil {
		patch.PPN = &document.TaxOption{Name: r.PPN.Name, Rate: r.PPN.Rate}
	}
	if r.PPH != nil {
		patch.PPH = &document.TaxOption{Name: r.PPH.Name, Rate: r.PPH.Rate}
	}
	if r.PaymentType != nil {
		pt := document.PaymentType(*r.PaymentType)
		patch.PaymentType = &pt
	}
	return patch
}

func parseDate(raw string) *time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}
