package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGenerateStatements is the task type for annual statement runs.
	TaskGenerateStatements = "statements:generate"
)

// GenerateStatementsPayload describes one statement generation run.
type GenerateStatementsPayload struct {
	PartnerID  string `json:"partnerId"`
	Year       int    `json:"year"`
	Regenerate bool   `json:"regenerate"`
}

// NewGenerateStatementsTask constructs an Asynq task.
func NewGenerateStatementsTask(payload GenerateStatementsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGenerateStatements, data), nil
}

// Enqueuer submits tasks through an Asynq client.
type Enqueuer struct {
	client *asynq.Client
}

// NewEnqueuer wraps an Asynq client.
func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// EnqueueGenerateStatements submits a statement generation run.
func (e *Enqueuer) EnqueueGenerateStatements(ctx context.Context, partnerID string, year int, regenerate bool) error {
	task, err := NewGenerateStatementsTask(GenerateStatementsPayload{
		PartnerID:  partnerID,
		Year:       year,
		Regenerate: regenerate,
	})
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}
