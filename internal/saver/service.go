package saver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kertas-app/kertas/internal/document"
	"github.com/kertas-app/kertas/internal/export"
	"github.com/kertas-app/kertas/internal/submission"
	"github.com/kertas-app/kertas/jobs"
)

var (
	// ErrSaveInFlight signals a save is already pending for the draft.
	ErrSaveInFlight = errors.New("a save is already in progress for this draft")
	// ErrNoItems signals the draft carries no line items.
	ErrNoItems = errors.New("at least one service item is required")
	// ErrPartyRequired signals no client or lead has been selected.
	ErrPartyRequired = errors.New("a client or lead must be selected")
)

// RendererPort produces the print HTML for a draft view model.
type RendererPort interface {
	Render(vm export.ViewModel) (string, error)
}

// ExporterPort converts print HTML into a PDF artifact.
type ExporterPort interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// GatewayPort transmits the draft and its PDF upstream.
type GatewayPort interface {
	Submit(ctx context.Context, d *document.Draft, pdf []byte) error
}

// EnqueuerPort hands save tasks to the background queue.
type EnqueuerPort interface {
	EnqueueDocumentSave(ctx context.Context, payload jobs.DocumentSavePayload) (*asynq.TaskInfo, error)
}

const guardTTL = 5 * time.Minute

// Service coordinates save runs: the API side starts them, the worker
// side executes the pipeline.
type Service struct {
	drafts   *document.Store
	statuses *StatusStore
	renderer RendererPort
	exporter ExporterPort
	gateway  GatewayPort
	enqueuer EnqueuerPort
	logger   *slog.Logger
}

// NewService constructs a Service.
func NewService(drafts *document.Store, statuses *StatusStore, renderer RendererPort, exporter ExporterPort, gateway GatewayPort, enqueuer EnqueuerPort, logger *slog.Logger) *Service {
	return &Service{
		drafts:   drafts,
		statuses: statuses,
		renderer: renderer,
		exporter: exporter,
		gateway:  gateway,
		enqueuer: enqueuer,
		logger:   logger,
	}
}

// Start validates the draft and enqueues its save run. Validation
// failures are returned synchronously and never reach the upstream
// endpoint. A second start while a run is pending returns
// ErrSaveInFlight.
func (s *Service) Start(ctx context.Context, draftID string) error {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return err
	}
	if err := validate(draft); err != nil {
		return err
	}

	acquired, err := s.statuses.Acquire(ctx, draftID, guardTTL)
	if err != nil {
		return err
	}
	if !acquired {
		return ErrSaveInFlight
	}

	now := time.Now()
	if err := s.statuses.Set(ctx, Status{
		DraftID:   draftID,
		Kind:      draft.Kind,
		Phase:     PhaseIdle,
		StartedAt: now,
	}); err != nil {
		s.statuses.Release(ctx, draftID)
		return err
	}

	if _, err := s.enqueuer.EnqueueDocumentSave(ctx, jobs.DocumentSavePayload{
		DraftID: draftID,
		Kind:    string(draft.Kind),
	}); err != nil {
		s.statuses.Release(ctx, draftID)
		return err
	}
	return nil
}

// Preview renders the draft to its PDF artifact without touching the
// save pipeline or the upstream endpoint.
func (s *Service) Preview(ctx context.Context, draftID string) ([]byte, error) {
	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.Render(export.BuildViewModel(draft))
	if err != nil {
		return nil, err
	}
	return s.exporter.RenderHTML(ctx, html)
}

// Status reports the current save progress for the draft.
func (s *Service) Status(ctx context.Context, draftID string) (Status, error) {
	return s.statuses.Get(ctx, draftID)
}

// Run executes the pipeline for an already-started run. Failures are
// recorded on the status record rather than retried; the draft itself is
// left intact so the user can correct and save again.
func (s *Service) Run(ctx context.Context, draftID string) error {
	defer s.statuses.Release(ctx, draftID)

	draft, err := s.drafts.Get(ctx, draftID)
	if err != nil {
		s.fail(ctx, draftID, "", err)
		return err
	}

	status := Status{DraftID: draftID, Kind: draft.Kind, StartedAt: time.Now()}

	status.Phase = PhaseRendering
	_ = s.statuses.Set(ctx, status)
	html, err := s.renderer.Render(export.BuildViewModel(draft))
	if err != nil {
		s.fail(ctx, draftID, draft.Kind, err)
		return err
	}

	status.Phase = PhaseExporting
	_ = s.statuses.Set(ctx, status)
	pdf, err := s.exporter.RenderHTML(ctx, html)
	if err != nil {
		s.fail(ctx, draftID, draft.Kind, err)
		return err
	}

	status.Phase = PhaseSubmitting
	_ = s.statuses.Set(ctx, status)
	if err := s.gateway.Submit(ctx, draft, pdf); err != nil {
		s.fail(ctx, draftID, draft.Kind, err)
		return err
	}

	status.Phase = PhaseSucceeded
	status.PDFBytes = len(pdf)
	if err := s.statuses.Set(ctx, status); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("document saved",
			slog.String("draft_id", draftID),
			slog.String("kind", string(draft.Kind)),
			slog.String("number", draft.State.Number),
		)
	}
	return nil
}

func (s *Service) fail(ctx context.Context, draftID string, kind document.Kind, cause error) {
	status := Status{
		DraftID: draftID,
		Kind:    kind,
		Phase:   PhaseFailed,
		Error:   cause.Error(),
	}
	var fieldErrs submission.FieldErrors
	if errors.As(cause, &fieldErrs) {
		status.FieldErrors = fieldErrs
	}
	if err := s.statuses.Set(ctx, status); err != nil && s.logger != nil {
		s.logger.Error("record save failure", slog.Any("error", err), slog.String("draft_id", draftID))
	}
}

func validate(d *document.Draft) error {
	if len(d.State.Items) == 0 {
		return ErrNoItems
	}
	if d.State.Party.PartyID == 0 {
		return ErrPartyRequired
	}
	return nil
}
