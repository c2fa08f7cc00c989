// Package document holds the draft state and totals computation shared by
// quotation and invoice flows.
package document

import (
	"encoding/json"
	"time"
)

// Kind distinguishes the two document flavours sharing the draft core.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

// IsValid checks if the kind is known.
func (k Kind) IsValid() bool {
	return k == KindQuotation || k == KindInvoice
}

// PartyType selects which directory a party id points into.
type PartyType string

const (
	PartyClient PartyType = "client"
	PartyLead   PartyType = "lead"
)

// IsValid checks if the party type is known.
func (t PartyType) IsValid() bool {
	return t == PartyClient || t == PartyLead
}

// PaymentType drives the invoice down-payment fraction.
type PaymentType string

const (
	PaymentFull        PaymentType = "full"
	PaymentDownPayment PaymentType = "down_payment"
	PaymentCustom      PaymentType = "custom"
)

// LineItem is a single service row on a document.
type LineItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Qualifier string  `json:"qualifier,omitempty"`
	Price     float64 `json:"price"`
}

type lineItemJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Qualifier string          `json:"qualifier,omitempty"`
	Price     json.RawMessage `json:"price"`
}

// UnmarshalJSON accepts the price as a JSON number or a raw form string.
// Hydrated records carry form values, so an unparsable price coerces to 0
// instead of failing the decode. New items still go through AddItem,
// which rejects unparsable prices outright.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	li.ID = raw.ID
	li.Name = raw.Name
	li.Qualifier = raw.Qualifier
	li.Price = 0
	if len(raw.Price) == 0 {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw.Price, &n); err == nil {
		li.Price = n
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.Price, &s); err == nil {
		li.Price = ParsePrice(s)
	}
	return nil
}

// PartyReference identifies the document counterpart. ContactID is only
// meaningful relative to the current PartyID.
type PartyReference struct {
	PartyType PartyType `json:"party_type,omitempty"`
	PartyID   int64     `json:"party_id,omitempty"`
	ContactID int64     `json:"contact_id,omitempty"`
}

// TaxOption pairs a tax label with its rate so the two can never be
// selected independently.
type TaxOption struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// RateSelection carries the tax, discount and down-payment parameters
// feeding the totals computation.
type RateSelection struct {
	TaxName *string `json:"tax_name"`
	TaxRate float64 `json:"tax_rate"`

	DiscountEnabled bool    `json:"discount_enabled"`
	DiscountAmount  float64 `json:"discount_amount"`

	PPNName string  `json:"ppn_name,omitempty"`
	PPNRate float64 `json:"ppn_rate"`
	PPHName string  `json:"pph_name,omitempty"`
	PPHRate float64 `json:"pph_rate"`

	PaymentType       PaymentType `json:"payment_type,omitempty"`
	PaymentPercentage float64     `json:"payment_percentage"`
}

// Totals is derived from the line items and rate selection. It is never
// authoritative: every mutation recomputes it from scratch.
type Totals struct {
	SubTotal    float64 `json:"sub_total"`
	TaxAmount   float64 `json:"tax_amount"`
	PPNAmount   float64 `json:"ppn_amount"`
	PPHAmount   float64 `json:"pph_amount"`
	DownPayment float64 `json:"down_payment"`
	Total       float64 `json:"total"`
}

// State holds every user-editable field of a draft document.
type State struct {
	Number     string     `json:"number"`
	Date       *time.Time `json:"date,omitempty"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`

	Party         PartyReference `json:"party"`
	PartyName     string         `json:"party_name,omitempty"`
	PartyAddress  string         `json:"party_address,omitempty"`
	ContactPerson string         `json:"contact_person,omitempty"`
	Email         string         `json:"email,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Position      string         `json:"position,omitempty"`

	Rates RateSelection `json:"rates"`
	Items []LineItem    `json:"items"`

	Subject      string `json:"subject,omitempty"`
	PaymentTerms string `json:"payment_terms,omitempty"`
	Note         string `json:"note,omitempty"`
}
