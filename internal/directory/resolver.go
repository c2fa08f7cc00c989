package directory

import (
	"context"
	"errors"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/shared"
)

// Directory is the read-only record source the resolver searches.
type Directory interface {
	Client(ctx context.Context, id int64) (*ClientRecord, error)
	Lead(ctx context.Context, id int64) (*LeadRecord, error)
	Clients(ctx context.Context) ([]ClientRecord, error)
	Leads(ctx context.Context) ([]LeadRecord, error)
}

// Resolver looks up party and contact display fields per party type. A
// missing record resolves to empty fields rather than an error, so typing
// ahead of directory sync never breaks a form.
type Resolver struct {
	dir Directory
}

// NewResolver builds a Resolver over the given directory.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// SelectParty resolves the display name and address for a party id in the
// directory selected by the party type.
func (r *Resolver) SelectParty(ctx context.Context, pt document.PartyType, partyID int64) (PartyFields, error) {
	switch pt {
	case document.PartyClient:
		client, err := r.dir.Client(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return PartyFields{}, nil
		}
		if err != nil {
			return PartyFields{}, err
		}
		return PartyFields{DisplayName: client.DisplayName(), Address: client.Lead.Address}, nil
	case document.PartyLead:
		lead, err := r.dir.Lead(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return PartyFields{}, nil
		}
		if err != nil {
			return PartyFields{}, err
		}
		return PartyFields{DisplayName: lead.CompanyName, Address: lead.Address}, nil
	default:
		return PartyFields{}, document.ErrInvalidPartyType
	}
}

// SelectContact resolves contact fields for a contact id under the given
// party. For clients the contact identity is read from the contact's
// nested lead while the position comes from the contact record itself.
// For leads the party record stands in as the sole contact.
func (r *Resolver) SelectContact(ctx context.Context, pt document.PartyType, partyID, contactID int64) (ContactFields, error) {
	switch pt {
	case document.PartyClient:
		client, err := r.dir.Client(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return ContactFields{}, nil
		}
		if err != nil {
			return ContactFields{}, err
		}
		for _, contact := range client.ContactPersons {
			if contact.ID != contactID {
				continue
			}
			return ContactFields{
				ContactPerson: contact.Lead.ContactName,
				Email:         contact.Lead.Email,
				Phone:         contact.Lead.Phone,
				Position:      contact.Position,
			}, nil
		}
		return ContactFields{}, nil
	case document.PartyLead:
		lead, err := r.dir.Lead(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return ContactFields{}, nil
		}
		if err != nil {
			return ContactFields{}, err
		}
		if contactID != lead.ID {
			return ContactFields{}, nil
		}
		return ContactFields{
			ContactPerson: lead.ContactName,
			Email:         lead.Email,
			Phone:         lead.Phone,
			Position:      lead.Position,
		}, nil
	default:
		return ContactFields{}, document.ErrInvalidPartyType
	}
}

// Contacts lists the selectable contacts for a party. A lead degenerates
// to a single synthetic entry equal to the lead itself.
func (r *Resolver) Contacts(ctx context.Context, pt document.PartyType, partyID int64) ([]ContactOption, error) {
	switch pt {
	case document.PartyClient:
		client, err := r.dir.Client(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		options := make([]ContactOption, 0, len(client.ContactPersons))
		for _, contact := range client.ContactPersons {
			options = append(options, ContactOption{
				ID:       contact.ID,
				Name:     contact.Lead.ContactName,
				Position: contact.Position,
			})
		}
		return options, nil
	case document.PartyLead:
		lead, err := r.dir.Lead(ctx, partyID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []ContactOption{{ID: lead.ID, Name: lead.ContactName, Position: lead.Position}}, nil
	default:
		return nil, document.ErrInvalidPartyType
	}
}
