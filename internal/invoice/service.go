// Package invoice exposes the invoice draft flow: create or hydrate a
// draft, edit its fields and items, pick the counterpart and run the
// save pipeline.
package invoice

import (
	"context"

	"github.com/kertas-app/kertas/internal/directory"
	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/numbering"
	"github.com/kertas-app/kertas/internal/saver"
)

// Service coordinates the invoice draft lifecycle.
type Service struct {
	drafts   *document.Store
	resolver *directory.Resolver
	numbers  *numbering.Service
	saves    *saver.Service
}

// NewService constructs a Service.
func NewService(drafts *document.Store, resolver *directory.Resolver, numbers *numbering.Service, saves *saver.Service) *Service {
	return &Service{drafts: drafts, resolver: resolver, numbers: numbers, saves: saves}
}

// Create starts an empty invoice draft pre-filled with the next display
// number.
func (s *Service) Create(ctx context.Context) (*document.Draft, error) {
	draft := document.NewDraft(document.KindInvoice)
	number, err := s.numbers.Preview(ctx, numbering.DocTypeInvoice)
	if err != nil {
		return nil, err
	}
	draft.SetFields(document.Patch{Number: &number})
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Hydrate starts a draft pre-filled from an existing invoice record. The
// given state becomes the Reset snapshot.
func (s *Service) Hydrate(ctx context.Context, state document.State) (*document.Draft, error) {
	draft := document.Hydrate(document.KindInvoice, state)
	if err := s.drafts.Create(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Get loads the draft.
func (s *Service) Get(ctx context.Context, id string) (*document.Draft, error) {
	return s.drafts.Get(ctx, id)
}

// SetFields merges a partial field update and returns the recomputed
// draft.
func (s *Service) SetFields(ctx context.Context, id string, patch document.Patch) (*document.Draft, error) {
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		d.SetFields(patch)
		return nil
	})
}

// AddItem appends a service row.
func (s *Service) AddItem(ctx context.Context, id string, input document.ItemInput) (*document.Draft, error) {
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		return d.AddItem(input)
	})
}

// RemoveItem drops a service row. Unknown item ids are a no-op.
func (s *Service) RemoveItem(ctx context.Context, id, itemID string) (*document.Draft, error) {
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		d.RemoveItem(itemID)
		return nil
	})
}

// SetPartyType switches the party directory, clearing the previous party
// and contact selection.
func (s *Service) SetPartyType(ctx context.Context, id string, pt document.PartyType) (*document.Draft, error) {
	if !pt.IsValid() {
		return nil, document.ErrInvalidPartyType
	}
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		d.ApplyPartyType(pt)
		return nil
	})
}

// SelectParty resolves the party's display fields and applies them with
// the selection, clearing any previous contact.
func (s *Service) SelectParty(ctx context.Context, id string, pt document.PartyType, partyID int64) (*document.Draft, error) {
	if !pt.IsValid() {
		return nil, document.ErrInvalidPartyType
	}
	fields, err := s.resolver.SelectParty(ctx, pt, partyID)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		d.ApplyParty(pt, partyID, fields.DisplayName, fields.Address)
		return nil
	})
}

// SelectContact resolves a contact within the current party and applies
// its fields.
func (s *Service) SelectContact(ctx context.Context, id string, contactID int64) (*document.Draft, error) {
	draft, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.State.Party.PartyID == 0 {
		return nil, document.ErrNoPartySelected
	}
	fields, err := s.resolver.SelectContact(ctx, draft.State.Party.PartyType, draft.State.Party.PartyID, contactID)
	if err != nil {
		return nil, err
	}
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		return d.ApplyContact(contactID, fields.ContactPerson, fields.Email, fields.Phone, fields.Position)
	})
}

// Reset restores the draft to its hydration snapshot.
func (s *Service) Reset(ctx context.Context, id string) (*document.Draft, error) {
	return s.drafts.Update(ctx, id, func(d *document.Draft) error {
		d.Reset()
		return nil
	})
}

// Discard deletes the draft without saving.
func (s *Service) Discard(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}

// Preview renders the draft into its PDF artifact without saving.
func (s *Service) Preview(ctx context.Context, id string) ([]byte, error) {
	return s.saves.Preview(ctx, id)
}

// Save starts the render-export-submit pipeline for the draft.
func (s *Service) Save(ctx context.Context, id string) error {
	return s.saves.Start(ctx, id)
}

// SaveStatus reports the progress of the draft's save run.
func (s *Service) SaveStatus(ctx context.Context, id string) (saver.Status, error) {
	return s.saves.Status(ctx, id)
}
