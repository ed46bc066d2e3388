package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/oklog/ulid/v2"
)

// Queue hands download jobs to the worker through asynq.
type Queue struct {
	client *asynq.Client
}

func NewQueue(client *asynq.Client) *Queue { return &Queue{client: client} }

// NewTask builds the asynq task for p. Failures are terminal, so no retries.
func NewTask(p DownloadPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDownload, b, asynq.MaxRetry(0), asynq.TaskID(ulid.Make().String())), nil
}

// Dispatch enqueues p.
func (q *Queue) Dispatch(ctx context.Context, p DownloadPayload) error {
	task, err := NewTask(p)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", TaskDownload, err)
	}
	return nil
}

// ParseTask decodes a download task payload.
func ParseTask(t *asynq.Task) (DownloadPayload, error) {
	var p DownloadPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", t.Type(), err)
	}
	return p, nil
}
