package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"servebook/config"
	"servebook/models"
	"servebook/services/tasks"
	"servebook/utils"

	"firebase.google.com/go/v4/messaging"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitNotifyWorker runs the async push-delivery worker in the background.
// Delivery is best-effort by design: a failed push is logged and retried by
// asynq, but never reported back to the operation that enqueued it.
func InitNotifyWorker() {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisNotifyQueueDB,
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
	mux.HandleFunc(tasks.TypePushNotify, handlePushTask)

	go func() {
		log.Println("[NotifyWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotifyWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotifyWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handlePushTask sends one queued push via FCM. Devices subscribe to a
// per-user topic at login, so delivery needs no token lookup here.
func handlePushTask(ctx context.Context, task *asynq.Task) error {
	var p models.PushPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		zap.L().Error("invalid push payload", zap.Error(err))
		return err
	}

	msg := &messaging.Message{
		Topic: "user_" + p.UserID,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: p.Data,
	}

	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		zap.L().Warn("push delivery failed",
			zap.String("userId", p.UserID),
			zap.String("type", p.Type),
			zap.Error(err),
		)
		return err
	}
	return nil
}
