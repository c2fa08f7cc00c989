package saver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/export"
	"github.com/kertas-app/kertas/internal/submission"
	"github.com/kertas-app/kertas/jobs"
)

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(vm export.ViewModel) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "<html>" + vm.Number + "</html>", nil
}

type fakeExporter struct {
	err   error
	calls int
}

func (f *fakeExporter) RenderHTML(_ context.Context, html string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF " + html), nil
}

type fakeGateway struct {
	err    error
	calls  int
	gotPDF []byte
}

func (f *fakeGateway) Submit(_ context.Context, _ *document.Draft, pdf []byte) error {
	f.calls++
	f.gotPDF = pdf
	return f.err
}

type fakeEnqueuer struct {
	err      error
	payloads []jobs.DocumentSavePayload
}

func (f *fakeEnqueuer) EnqueueDocumentSave(_ context.Context, p jobs.DocumentSavePayload) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.payloads = append(f.payloads, p)
	return &asynq.TaskInfo{ID: "task-1"}, nil
}

type saverFixture struct {
	service  *Service
	drafts   *document.Store
	statuses *StatusStore
	renderer *fakeRenderer
	exporter *fakeExporter
	gateway  *fakeGateway
	enqueuer *fakeEnqueuer
}

func newFixture(t *testing.T) *saverFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &saverFixture{
		drafts:   document.NewStore(client, time.Hour),
		statuses: NewStatusStore(client, time.Hour),
		renderer: &fakeRenderer{},
		exporter: &fakeExporter{},
		gateway:  &fakeGateway{},
		enqueuer: &fakeEnqueuer{},
	}
	f.service = NewService(f.drafts, f.statuses, f.renderer, f.exporter, f.gateway, f.enqueuer, nil)
	return f
}

func (f *saverFixture) seedDraft(t *testing.T) *document.Draft {
	t.Helper()
	d := document.NewDraft(document.KindQuotation)
	number := "QT-0001"
	d.SetFields(document.Patch{Number: &number})
	d.ApplyParty(document.PartyClient, 9, "PT Abadi", "Jl. Gatot Subroto 1")
	require.NoError(t, d.AddItem(document.ItemInput{Name: "Pendampingan", Price: "750000"}))
	require.NoError(t, f.drafts.Create(context.Background(), d))
	return d
}

func TestStartEnqueuesAndGuards(t *testing.T) {
	f := newFixture(t)
	d := f.seedDraft(t)
	ctx := context.Background()

	require.NoError(t, f.service.Start(ctx, d.ID))
	require.Len(t, f.enqueuer.payloads, 1)
	assert.Equal(t, d.ID, f.enqueuer.payloads[0].DraftID)
	assert.Equal(t, "quotation", f.enqueuer.payloads[0].Kind)

	status, err := f.service.Status(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, status.Phase)

	// A second save while the first is pending is a no-op.
	err = f.service.Start(ctx, d.ID)
	assert.ErrorIs(t, err, ErrSaveInFlight)
	assert.Len(t, f.enqueuer.payloads, 1)
}

func TestStartValidatesBeforeQueueing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty := document.NewDraft(document.KindInvoice)
	empty.ApplyParty(document.PartyLead, 4, "CV Baru", "")
	require.NoError(t, f.drafts.Create(ctx, empty))
	assert.ErrorIs(t, f.service.Start(ctx, empty.ID), ErrNoItems)

	noParty := document.NewDraft(document.KindInvoice)
	require.NoError(t, noParty.AddItem(document.ItemInput{Name: "Jasa", Price: "100"}))
	require.NoError(t, f.drafts.Create(ctx, noParty))
	assert.ErrorIs(t, f.service.Start(ctx, noParty.ID), ErrPartyRequired)

	assert.Empty(t, f.enqueuer.payloads)
	assert.Zero(t, f.gateway.calls)
}

func TestStartUnknownDraft(t *testing.T) {
	f := newFixture(t)
	err := f.service.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, document.ErrDraftNotFound)
}

func TestRunSucceeds(t *testing.T) {
	f := newFixture(t)
	d := f.seedDraft(t)
	ctx := context.Background()

	require.NoError(t, f.service.Start(ctx, d.ID))
	require.NoError(t, f.service.Run(ctx, d.ID))

	status, err := f.service.Status(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseSucceeded, status.Phase)
	assert.True(t, status.Phase.Terminal())
	assert.Equal(t, 1, f.renderer.calls)
	assert.Equal(t, 1, f.exporter.calls)
	assert.Equal(t, 1, f.gateway.calls)
	assert.Contains(t, string(f.gateway.gotPDF), "QT-0001")
	assert.Equal(t, len(f.gateway.gotPDF), status.PDFBytes)

	// The guard is released, so the draft can be saved again.
	require.NoError(t, f.service.Start(ctx, d.ID))
}

func TestRunExportFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	d := f.seedDraft(t)
	ctx := context.Background()

	f.exporter.err = errors.New("rasterization failed")
	require.Error(t, f.service.Run(ctx, d.ID))

	status, err := f.service.Status(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, status.Phase)
	assert.Equal(t, "rasterization failed", status.Error)
	assert.Zero(t, f.gateway.calls)

	// Draft state is untouched so the user can retry.
	kept, err := f.drafts.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, kept.State.Items, 1)
}

func TestRunSurfacesFieldErrors(t *testing.T) {
	f := newFixture(t)
	d := f.seedDraft(t)
	ctx := context.Background()

	f.gateway.err = submission.FieldErrors{"number": "already taken"}
	require.Error(t, f.service.Run(ctx, d.ID))

	status, err := f.service.Status(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, status.Phase)
	assert.Equal(t, "already taken", status.FieldErrors["number"])
}

func TestPreviewRendersWithoutSubmitting(t *testing.T) {
	f := newFixture(t)
	d := f.seedDraft(t)
	ctx := context.Background()

	pdf, err := f.service.Preview(ctx, d.ID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "QT-0001")
	assert.Zero(t, f.gateway.calls)
	assert.Empty(t, f.enqueuer.payloads)

	// Previewing never takes the save guard.
	require.NoError(t, f.service.Start(ctx, d.ID))
}

func TestPreviewUnknownDraft(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Preview(context.Background(), "missing")
	assert.ErrorIs(t, err, document.ErrDraftNotFound)
}

func TestStatusUnknownDraft(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Status(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrStatusNotFound)
}
