// Package jobs defines the background task types and the asynq plumbing
// shared by the API and the worker binary.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeDocumentSave is the task type for the render-export-submit
	// pipeline of a finished draft.
	TaskTypeDocumentSave = "document:save"
)

// DocumentSavePayload identifies the draft a save task operates on.
type DocumentSavePayload struct {
	DraftID string `json:"draft_id"`
	Kind    string `json:"kind"`
}

// NewDocumentSaveTask constructs an Asynq task.
func NewDocumentSaveTask(payload DocumentSavePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeDocumentSave, data), nil
}
