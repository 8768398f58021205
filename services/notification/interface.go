package notification

import "context"

// Service is the fire-and-forget notification-enqueue sink. Enqueue persists
// an in-app notification and queues a push delivery; it is never awaited for
// correctness by callers.
type Service interface {
	Enqueue(ctx context.Context, userID, templateType string, data map[string]string) error
}
