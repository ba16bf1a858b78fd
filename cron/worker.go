package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"directory101/config"
	"directory101/services/notification"
	"directory101/services/tasks"

	"github.com/hibiken/asynq"
)

// InitEmailWorker runs the transactional-email worker in background.
func InitEmailWorker(provider notification.EmailProvider) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeEmailSend, handleEmailTask(provider))

	// Start async worker with retry logic
	go func() {
		log.Println("[EmailWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[EmailWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[EmailWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleEmailTask(provider notification.EmailProvider) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.EmailPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[EmailWorker] Invalid payload: %v", err)
			return err
		}

		if err := provider.SendEmail(p.To, p.Subject, p.Body); err != nil {
			log.Printf("[EmailWorker] Failed to send email to %s: %v", p.To, err)
			return err
		}
		return nil
	}
}
