// Package directory resolves document counterparts (clients and leads)
// and their contacts from the read-only party directory.
package directory

// LeadRecord is a raw lead: company and contact fields live directly on
// the record.
type LeadRecord struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
	Address     string `json:"address"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Position    string `json:"position"`
}

// ContactPerson belongs to a client. Its identity (name, email, phone)
// comes from the nested lead while the position is the contact record's
// own field. Client records are wrappers over lead data; this indirection
// is deliberate.
type ContactPerson struct {
	ID       int64      `json:"id"`
	Position string     `json:"position"`
	Lead     LeadRecord `json:"lead"`
}

// ClientRecord is a converted lead: the company identity lives on the
// wrapped lead, and contacts come from a dedicated sub-list.
type ClientRecord struct {
	ID             int64           `json:"id"`
	ClientCode     string          `json:"client_code"`
	Lead           LeadRecord      `json:"lead"`
	ContactPersons []ContactPerson `json:"contact_persons"`
}

// PartyFields are the display fields a party selection resolves to.
type PartyFields struct {
	DisplayName string `json:"display_name"`
	Address     string `json:"address"`
}

// ContactFields are the display fields a contact selection resolves to.
type ContactFields struct {
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Position      string `json:"position"`
}

// ContactOption is one entry of a party's selectable contact list.
type ContactOption struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position,omitempty"`
}

// DisplayName returns the client's company name, falling back to the
// client code when the wrapped lead carries none.
func (c ClientRecord) DisplayName() string {
	if c.Lead.CompanyName != "" {
		return c.Lead.CompanyName
	}
	return c.ClientCode
}
