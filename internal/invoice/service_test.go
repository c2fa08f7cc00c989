package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertas-app/kertas/internal/directory"
	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/export"
	"github.com/kertas-app/kertas/internal/numbering"
	"github.com/kertas-app/kertas/internal/saver"
	"github.com/kertas-app/kertas/internal/shared"
	"github.com/kertas-app/kertas/jobs"
)

type fakeDirectory struct {
	leads map[int64]directory.LeadRecord
}

func (f *fakeDirectory) Client(context.Context, int64) (*directory.ClientRecord, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeDirectory) Lead(_ context.Context, id int64) (*directory.LeadRecord, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (f *fakeDirectory) Clients(context.Context) ([]directory.ClientRecord, error) {
	return nil, nil
}

func (f *fakeDirectory) Leads(context.Context) ([]directory.LeadRecord, error) {
	out := make([]directory.LeadRecord, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

type fakeSequences struct{ next int64 }

func (f *fakeSequences) Peek(_ context.Context, docType numbering.DocType) (numbering.Sequence, error) {
	return numbering.Sequence{DocType: docType, Prefix: string(docType) + "-", Padding: 4, NextNumber: f.next}, nil
}

func (f *fakeSequences) Next(ctx context.Context, docType numbering.DocType) (numbering.Sequence, error) {
	seq, _ := f.Peek(ctx, docType)
	f.next++
	return seq, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(export.ViewModel) (string, error) { return "<html></html>", nil }

type fakeExporter struct{}

func (fakeExporter) RenderHTML(context.Context, string) ([]byte, error) { return []byte("%PDF"), nil }

type fakeGateway struct{}

func (fakeGateway) Submit(context.Context, *document.Draft, []byte) error { return nil }

type fakeEnqueuer struct{}

func (fakeEnqueuer) EnqueueDocumentSave(context.Context, jobs.DocumentSavePayload) (*asynq.TaskInfo, error) {
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func newService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	drafts := document.NewStore(client, time.Hour)
	saves := saver.NewService(
		drafts,
		saver.NewStatusStore(client, time.Hour),
		fakeRenderer{}, fakeExporter{}, fakeGateway{}, fakeEnqueuer{}, nil,
	)
	dir := &fakeDirectory{leads: map[int64]directory.LeadRecord{
		2: {ID: 2, CompanyName: "CV Baru", Address: "Jl. Asia Afrika 2", ContactName: "Budi"},
	}}
	return NewService(drafts, directory.NewResolver(dir), numbering.NewService(&fakeSequences{next: 7}), saves)
}

func TestCreatePreviewsInvoiceNumber(t *testing.T) {
	service := newService(t)
	draft, err := service.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, document.KindInvoice, draft.Kind)
	assert.Equal(t, "INV-0007", draft.State.Number)
}

func TestTaxAndDownPaymentTotals(t *testing.T) {
	service := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	_, err = service.AddItem(ctx, draft.ID, document.ItemInput{Name: "Instalasi", Price: "1000000"})
	require.NoError(t, err)

	half := 0.5
	req := FieldsRequest{
		PPN:               &TaxSelection{Name: "PPN 11%", Rate: 0.11},
		PPH:               &TaxSelection{Name: "PPh 23", Rate: 0.02},
		PaymentPercentage: &half,
	}
	updated, err := service.SetFields(ctx, draft.ID, req.toPatch())
	require.NoError(t, err)

	assert.Equal(t, 110000.0, updated.Totals.PPNAmount)
	assert.Equal(t, 20000.0, updated.Totals.PPHAmount)
	assert.Equal(t, 500000.0, updated.Totals.DownPayment)
	// The down payment is informational and never subtracted.
	assert.Equal(t, 1090000.0, updated.Totals.Total)
}

func TestPaymentTypeTransitions(t *testing.T) {
	service := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	_, err = service.AddItem(ctx, draft.ID, document.ItemInput{Name: "Jasa", Price: "100"})
	require.NoError(t, err)

	// Full payment pins the percentage, ignoring overrides.
	full := string(document.PaymentFull)
	half := 0.5
	updated, err := service.SetFields(ctx, draft.ID, FieldsRequest{PaymentType: &full, PaymentPercentage: &half}.toPatch())
	require.NoError(t, err)
	assert.Equal(t, 1.0, updated.State.Rates.PaymentPercentage)

	// Switching to down payment resets the fraction for explicit entry.
	dp := string(document.PaymentDownPayment)
	updated, err = service.SetFields(ctx, draft.ID, FieldsRequest{PaymentType: &dp}.toPatch())
	require.NoError(t, err)
	assert.Zero(t, updated.State.Rates.PaymentPercentage)

	updated, err = service.SetFields(ctx, draft.ID, FieldsRequest{PaymentPercentage: &half}.toPatch())
	require.NoError(t, err)
	assert.Equal(t, 0.5, updated.State.Rates.PaymentPercentage)
	assert.Equal(t, 50.0, updated.Totals.DownPayment)
}

func TestResetRestoresHydration(t *testing.T) {
	service := newService(t)
	ctx := context.Background()

	seed := document.State{
		Number: "INV-0003",
		Items:  []document.LineItem{{ID: "a", Name: "Retainer", Price: 250000}},
	}
	draft, err := service.Hydrate(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 250000.0, draft.Totals.Total)

	_, err = service.AddItem(ctx, draft.ID, document.ItemInput{Name: "Extra", Price: "50000"})
	require.NoError(t, err)

	updated, err := service.Reset(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, updated.State.Items, 1)
	assert.Equal(t, "Retainer", updated.State.Items[0].Name)
	assert.Equal(t, 250000.0, updated.Totals.Total)
}

func TestSelectPartyClearsContact(t *testing.T) {
	service := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	updated, err := service.SelectParty(ctx, draft.ID, document.PartyLead, 2)
	require.NoError(t, err)
	assert.Equal(t, "CV Baru", updated.State.PartyName)

	// The lead acts as its own synthetic contact.
	updated, err = service.SelectContact(ctx, draft.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, "Budi", updated.State.ContactPerson)

	updated, err = service.SetPartyType(ctx, draft.ID, document.PartyClient)
	require.NoError(t, err)
	assert.Zero(t, updated.State.Party.PartyID)
	assert.Empty(t, updated.State.PartyName)
	assert.Empty(t, updated.State.ContactPerson)
}
