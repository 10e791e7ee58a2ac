package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lms/api/internal/jobs"
)

type TokenPurger interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type ObjectRemover interface {
	Remove(ctx context.Context, bucket string, keys ...string) error
}

// Processor executes tasks read from the stream.
type Processor struct {
	tokens  TokenPurger
	objects ObjectRemover
	logger  zerolog.Logger
	now     func() time.Time
}

func NewProcessor(tokens TokenPurger, objects ObjectRemover, logger zerolog.Logger) *Processor {
	return &Processor{
		tokens:  tokens,
		objects: objects,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle dispatches on the entry's type field. Unknown types are logged and
// treated as done so they do not clog the pending list.
func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	task := decodeTask(msg.Values)

	switch task.Type {
	case jobs.TaskTokensCleanup:
		return p.handleTokensCleanup(ctx)
	case jobs.TaskMediaPurge:
		return p.handleMediaPurge(ctx, task)
	default:
		p.logger.Warn().Str("type", task.Type).Str("message_id", msg.ID).Msg("unknown task type")
		return nil
	}
}

func decodeTask(values map[string]interface{}) jobs.Task {
	task := jobs.Task{Fields: make(map[string]string, len(values))}
	for k, v := range values {
		s := fmt.Sprint(v)
		if k == "type" {
			task.Type = s
			continue
		}
		task.Fields[k] = s
	}
	return task
}

func (p *Processor) handleTokensCleanup(ctx context.Context) error {
	removed, err := p.tokens.DeleteExpired(ctx, p.now())
	if err != nil {
		return fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	p.logger.Info().Int64("removed", removed).Msg("expired refresh tokens removed")
	return nil
}

func (p *Processor) handleMediaPurge(ctx context.Context, task jobs.Task) error {
	bucket := task.Fields["bucket"]
	var keys []string
	for _, key := range strings.Split(task.Fields["objects"], ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	if bucket == "" || len(keys) == 0 {
		p.logger.Warn().Interface("fields", task.Fields).Msg("media purge without objects")
		return nil
	}

	if err := p.objects.Remove(ctx, bucket, keys...); err != nil {
		return fmt.Errorf("purge objects: %w", err)
	}
	p.logger.Info().Str("bucket", bucket).Strs("objects", keys).Msg("media purged")
	return nil
}
