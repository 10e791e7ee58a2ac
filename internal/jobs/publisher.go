package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Task types understood by the worker.
const (
	TaskTokensCleanup = "tokens.cleanup"
	TaskMediaPurge    = "media.purge"
)

// Task is one stream entry. Fields are flat string values.
type Task struct {
	Type   string
	Fields map[string]string
}

func TokensCleanupTask() Task {
	return Task{Type: TaskTokensCleanup}
}

func MediaPurgeTask(bucket string, keys []string) Task {
	return Task{
		Type: TaskMediaPurge,
		Fields: map[string]string{
			"bucket":  bucket,
			"objects": strings.Join(keys, ","),
		},
	}
}

// StreamPublisher appends tasks to a Redis stream read by cmd/worker.
type StreamPublisher struct {
	client *redis.Client
	stream string
}

func NewStreamPublisher(client *redis.Client, stream string) *StreamPublisher {
	return &StreamPublisher{client: client, stream: stream}
}

func (p *StreamPublisher) Publish(ctx context.Context, task Task) error {
	values := make(map[string]any, len(task.Fields)+1)
	for k, v := range task.Fields {
		values[k] = v
	}
	values["type"] = task.Type

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", task.Type, err)
	}
	return nil
}
