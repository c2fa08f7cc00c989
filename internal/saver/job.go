package saver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/kertas-app/kertas/internal/document"
	jobmetrics "github.com/kertas-app/kertas/internal/jobs"
	"github.com/kertas-app/kertas/jobs"
)

// Job processes document save requests coming from the queue.
type Job struct {
	service *Service
	metrics *jobmetrics.Metrics
	logger  *slog.Logger
}

// NewJob constructs a Job handler.
func NewJob(service *Service, metrics *jobmetrics.Metrics, logger *slog.Logger) *Job {
	return &Job{service: service, metrics: metrics, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract. Pipeline failures are
// recorded on the status record for the user to act on, not retried.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.service == nil {
		return fmt.Errorf("saver job not configured")
	}
	var payload jobs.DocumentSavePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.DraftID == "" {
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track("document_save")
	if err := tracker.End(j.service.Run(ctx, payload.DraftID)); err != nil {
		if j.logger != nil {
			j.logger.Warn("document save failed",
				slog.String("draft_id", payload.DraftID),
				slog.Any("error", err),
			)
		}
		if errors.Is(err, document.ErrDraftNotFound) {
			return asynq.SkipRetry
		}
		return nil
	}
	return nil
}
