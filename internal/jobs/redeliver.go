package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/garnizeh/offerdesk/internal/notify"
)

// TypeRedeliver is the job type for notices whose first delivery failed.
const TypeRedeliver = "notify.redeliver"

// RedeliverHandler sends the queued message through n.
func RedeliverHandler(n notify.Notifier) Handler {
	return func(ctx context.Context, j *Job) error {
		var msg notify.Message
		if err := json.Unmarshal(j.Payload, &msg); err != nil {
			return fmt.Errorf("decode notification payload: %w", err)
		}
		return n.Notify(ctx, msg)
	}
}

// Retrier queues failed notices on a WorkerPool.
type Retrier struct {
	pool        *WorkerPool
	maxAttempts int
}

func NewRetrier(pool *WorkerPool, maxAttempts int) *Retrier {
	return &Retrier{pool: pool, maxAttempts: maxAttempts}
}

func (r *Retrier) EnqueueNotification(ctx context.Context, msg notify.Message) error {
	if _, err := r.pool.Enqueue(ctx, TypeRedeliver, msg, 100, r.maxAttempts); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeRedeliver, err)
	}
	return nil
}
