package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

// Scheduler enqueues periodic maintenance tasks; the worker does the work.
type Scheduler struct {
	cron        *cron.Cron
	queue       Publisher
	cleanupSpec string
	log         zerolog.Logger
}

func NewScheduler(queue Publisher, cleanupSpec string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithSeconds()),
		queue:       queue,
		cleanupSpec: cleanupSpec,
		log:         log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cleanupSpec, s.enqueueCleanup); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the schedule; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) enqueueCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.queue.Publish(ctx, TokensCleanupTask()); err != nil {
		s.log.Error().Err(err).Msg("enqueue token cleanup failed")
		return
	}
	s.log.Debug().Msg("token cleanup enqueued")
}
