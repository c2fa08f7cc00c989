package quotation

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
	clients map[int64]directory.ClientRecord
	leads   map[int64]directory.LeadRecord
}

func (f *fakeDirectory) Client(_ context.Context, id int64) (*directory.ClientRecord, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (f *fakeDirectory) Lead(_ context.Context, id int64) (*directory.LeadRecord, error) {
	l, ok := f.leads[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &l, nil
}

func (f *fakeDirectory) Clients(context.Context) ([]directory.ClientRecord, error) {
	out := make([]directory.ClientRecord, 0, len(f.clients))
	for _, c := range f.clients {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeDirectory) Leads(context.Context) ([]directory.LeadRecord, error) {
	out := make([]directory.LeadRecord, 0, len(f.leads))
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

type fakeSequences struct {
	next map[numbering.DocType]int64
}

func (f *fakeSequences) Peek(_ context.Context, docType numbering.DocType) (numbering.Sequence, error) {
	return numbering.Sequence{DocType: docType, Prefix: string(docType) + "-", Padding: 4, NextNumber: f.next[docType]}, nil
}

func (f *fakeSequences) Next(_ context.Context, docType numbering.DocType) (numbering.Sequence, error) {
	seq, _ := f.Peek(context.Background(), docType)
	f.next[docType]++
	return seq, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(export.ViewModel) (string, error) { return "<html></html>", nil }

type fakeExporter struct{}

func (fakeExporter) RenderHTML(context.Context, string) ([]byte, error) { return []byte("%PDF"), nil }

type fakeGateway struct{ calls int }

func (f *fakeGateway) Submit(context.Context, *document.Draft, []byte) error {
	f.calls++
	return nil
}

type fakeEnqueuer struct{ payloads []jobs.DocumentSavePayload }

func (f *fakeEnqueuer) EnqueueDocumentSave(_ context.Context, p jobs.DocumentSavePayload) (*asynq.TaskInfo, error) {
	f.payloads = append(f.payloads, p)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func newService(t *testing.T) (*Service, *fakeEnqueuer) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	drafts := document.NewStore(client, time.Hour)
	dir := &fakeDirectory{
		clients: map[int64]directory.ClientRecord{
			1: {
				ID:         1,
				ClientCode: "CL-001",
				Lead:       directory.LeadRecord{ID: 10, CompanyName: "PT Abadi", Address: "Jl. Gatot Subroto 1"},
				ContactPersons: []directory.ContactPerson{
					{ID: 5, Position: "Finance Manager", Lead: directory.LeadRecord{ContactName: "Sari", Email: "sari@abadi.co.id", Phone: "0811"}},
				},
			},
		},
		leads: map[int64]directory.LeadRecord{
			2: {ID: 2, CompanyName: "CV Baru", Address: "Jl. Asia Afrika 2", ContactName: "Budi", Email: "budi@baru.id"},
		},
	}
	enqueuer := &fakeEnqueuer{}
	saves := saver.NewService(
		drafts,
		saver.NewStatusStore(client, time.Hour),
		fakeRenderer{}, fakeExporter{}, &fakeGateway{}, enqueuer, nil,
	)
	service := NewService(
		drafts,
		directory.NewResolver(dir),
		numbering.NewService(&fakeSequences{next: map[numbering.DocType]int64{numbering.DocTypeQuotation: 42}}),
		saves,
	)
	return service, enqueuer
}

func TestCreatePreviewsNumber(t *testing.T) {
	service, _ := newService(t)
	draft, err := service.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, document.KindQuotation, draft.Kind)
	assert.Equal(t, "QT-0042", draft.State.Number)

	loaded, err := service.Get(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.State.Number, loaded.State.Number)
}

func TestSetFieldsRecomputesTotals(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	_, err = service.AddItem(ctx, draft.ID, document.ItemInput{Name: "Audit", Price: "100000"})
	require.NoError(t, err)

	req := FieldsRequest{Tax: &TaxSelection{Name: "PPN 11%", Rate: 0.11}}
	updated, err := service.SetFields(ctx, draft.ID, req.toPatch())
	require.NoError(t, err)
	assert.Equal(t, 111000.0, updated.Totals.Total)
}

func TestSelectPartyThenContact(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	updated, err := service.SelectParty(ctx, draft.ID, document.PartyClient, 1)
	require.NoError(t, err)
	assert.Equal(t, "PT Abadi", updated.State.PartyName)

	updated, err = service.SelectContact(ctx, draft.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "Sari", updated.State.ContactPerson)
	assert.Equal(t, "Finance Manager", updated.State.Position)

	// Re-selecting the party clears the contact with it.
	updated, err = service.SelectParty(ctx, draft.ID, document.PartyLead, 2)
	require.NoError(t, err)
	assert.Equal(t, "CV Baru", updated.State.PartyName)
	assert.Zero(t, updated.State.Party.ContactID)
	assert.Empty(t, updated.State.ContactPerson)
}

func TestSelectContactWithoutParty(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	_, err = service.SelectContact(ctx, draft.ID, 5)
	assert.ErrorIs(t, err, document.ErrNoPartySelected)
}

func TestSetPartyTypeRejectsUnknown(t *testing.T) {
	service, _ := newService(t)
	draft, err := service.Create(context.Background())
	require.NoError(t, err)

	_, err = service.SetPartyType(context.Background(), draft.ID, document.PartyType("vendor"))
	assert.ErrorIs(t, err, document.ErrInvalidPartyType)
}

func TestSaveEnqueues(t *testing.T) {
	service, enqueuer := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	_, err = service.AddItem(ctx, draft.ID, document.ItemInput{Name: "Audit", Price: "100000"})
	require.NoError(t, err)
	_, err = service.SelectParty(ctx, draft.ID, document.PartyClient, 1)
	require.NoError(t, err)

	require.NoError(t, service.Save(ctx, draft.ID))
	require.Len(t, enqueuer.payloads, 1)
	assert.Equal(t, draft.ID, enqueuer.payloads[0].DraftID)

	status, err := service.SaveStatus(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, saver.PhaseIdle, status.Phase)
}

func TestDiscardDeletesDraft(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()
	draft, err := service.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, service.Discard(ctx, draft.ID))
	_, err = service.Get(ctx, draft.ID)
	assert.ErrorIs(t, err, document.ErrDraftNotFound)
}
