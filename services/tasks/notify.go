package tasks

import (
	"encoding/json"

	"servebook/models"

	"github.com/hibiken/asynq"
)

const TypePushNotify = "notify:push"

func NewPushTask(payload models.PushPayload) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePushNotify, b), nil
}
