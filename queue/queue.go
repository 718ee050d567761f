// Package queue is the fire-and-forget dispatch boundary between a poll
// cycle and the work it triggers. The triggering cycle's success is
// independent of whether a job ever completes.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job is a named unit of work with a JSON payload.
type Job struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// NewJob builds a job with a fresh id and the payload marshalled.
func NewJob(name string, payload any) (Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Job{}, fmt.Errorf("failed to marshal payload for job %s: %w", name, err)
	}
	return Job{ID: uuid.NewString(), Name: name, Payload: data}, nil
}

// Queue dispatches jobs to whichever worker picks them up next.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks up to timeout for the next job and returns nil when
	// none arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
}

// redisQueue backs the queue with a Redis list (LPUSH producer, BRPOP
// consumer).
type redisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue creates a Redis-list-backed queue under the given key.
func NewRedisQueue(client *redis.Client, key string) Queue {
	return &redisQueue{client: client, key: key}
}

func (q *redisQueue) Enqueue(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", job.ID, err)
	}
	return nil
}

func (q *redisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	vals, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue from %s: %w", q.key, err)
	}
	// BRPop returns [key, value].
	if len(vals) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(vals))
	}

	var job Job
	if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return &job, nil
}
