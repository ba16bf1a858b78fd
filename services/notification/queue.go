package notification

import (
	"fmt"

	"directory101/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqEmailQueue enqueues emails onto the Redis-backed job queue; the
// worker started from main drains it.
type AsynqEmailQueue struct {
	client *asynq.Client
}

// NewAsynqEmailQueue creates an EmailQueue on the given asynq client.
func NewAsynqEmailQueue(client *asynq.Client) *AsynqEmailQueue {
	return &AsynqEmailQueue{client: client}
}

// Enqueue schedules an email for asynchronous delivery.
func (q *AsynqEmailQueue) Enqueue(to, subject, body string) error {
	task, err := tasks.NewEmailTask(tasks.EmailPayload{To: to, Subject: subject, Body: body})
	if err != nil {
		return fmt.Errorf("failed to build email task: %w", err)
	}
	if _, err := q.client.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue email task: %w", err)
	}
	return nil
}
