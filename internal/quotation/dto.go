package quotation

import (
	"time"

	"github.com/kertas-app/kertas/internal/document"
)

// TaxSelection pairs the tax label with its rate so the two cannot be
// chosen independently. An empty name clears the selection.
type TaxSelection struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate" validate:"gte=0,lte=1"`
}

// FieldsRequest is the bulk field update for a quotation draft. Nil
// members leave the current value untouched.
type FieldsRequest struct {
	Number       *string `json:"number" validate:"omitempty,max=64"`
	Date         *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ValidUntil   *string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
	Subject      *string `json:"subject" validate:"omitempty,max=255"`
	PaymentTerms *string `json:"payment_terms" validate:"omitempty,max=255"`
	Note         *string `json:"note"`

	Tax             *TaxSelection `json:"tax"`
	DiscountEnabled *bool         `json:"discount_enabled"`
	DiscountAmount  *float64      `json:"discount_amount"`
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
		Number:          r.Number,
		Subject:         r.Subject,
		PaymentTerms:    r.PaymentTerms,
		Note:            r.Note,
		DiscountEnabled: r.DiscountEnabled,
		DiscountAmount:  r.DiscountAmount,
	}
	if r.Date != nil {
		patch.Date = parseDate(*r.Date)
	}
	if r.ValidUntil != nil {
		patch.ValidUntil = parseDate(*r.ValidUntil)
	}
	if r.Tax != nil {
		patch.Tax = &document.TaxOption{Name: r.Tax.Name, Rate: r.Tax.Rate}
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
