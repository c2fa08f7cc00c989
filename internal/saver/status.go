// Package saver runs the save pipeline for a draft: render the print
// layout, export it to PDF and submit the result upstream, reporting
// progress through a shared status record.
package saver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kertas-app/kertas/internal/document"
)

// Phase is one step of the save pipeline.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseRendering  Phase = "rendering"
	PhaseExporting  Phase = "exporting"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether the phase ends the pipeline.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Status is the externally visible progress record of one save run.
type Status struct {
	DraftID     string            `json:"draft_id"`
	Kind        document.Kind     `json:"kind"`
	Phase       Phase             `json:"phase"`
	Error       string            `json:"error,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	PDFBytes    int               `json:"pdf_bytes,omitempty"`
	StartedAt   time.Time         `json:"started_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ErrStatusNotFound is returned when no save run is recorded for a draft.
var ErrStatusNotFound = errors.New("save status not found")

const (
	statusKeyPrefix = "draft_save:"
	busyKeyPrefix   = "draft_save:busy:"
)

// StatusStore persists save progress in Redis so the API can report on
// runs executing in the worker.
type StatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusStore constructs a store retaining records for the given TTL.
func NewStatusStore(client *redis.Client, ttl time.Duration) *StatusStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &StatusStore{client: client, ttl: ttl}
}

// Set overwrites the status record for the draft.
func (s *StatusStore) Set(ctx context.Context, status Status) error {
	status.UpdatedAt = time.Now()
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode save status: %w", err)
	}
	return s.client.Set(ctx, statusKeyPrefix+status.DraftID, raw, s.ttl).Err()
}

// Get loads the status record for the draft.
func (s *StatusStore) Get(ctx context.Context, draftID string) (Status, error) {
	raw, err := s.client.Get(ctx, statusKeyPrefix+draftID).Bytes()
	if errors.Is(err, redis.Nil) {
		return Status{}, ErrStatusNotFound
	}
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := json.Unmarshal(raw, &status); err != nil {
		return Status{}, fmt.Errorf("decode save status: %w", err)
	}
	return status, nil
}

// Acquire marks the draft as having a save in flight. It reports false
// when a run is already pending, making a second save a no-op.
func (s *StatusStore) Acquire(ctx context.Context, draftID string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, busyKeyPrefix+draftID, "1", ttl).Result()
}

// Release clears the in-flight marker once the run reaches a terminal
// phase.
func (s *StatusStore) Release(ctx context.Context, draftID string) {
	s.client.Del(ctx, busyKeyPrefix+draftID)
}
