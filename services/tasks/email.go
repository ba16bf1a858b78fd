package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeEmailSend = "email:send"

// EmailPayload is the queued form of one transactional email.
type EmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewEmailTask builds the asynq task for a transactional email.
func NewEmailTask(payload EmailPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, b), nil
}
