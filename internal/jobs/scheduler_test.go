package jobs

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu    sync.Mutex
	tasks []Task
}

func (r *recordingPublisher) Publish(_ context.Context, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = append(r.tasks, task)
	return nil
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	s := NewScheduler(&recordingPublisher{}, "not a cron spec", zerolog.Nop())
	assert.Error(t, s.Start())
}

func TestSchedulerEnqueueCleanup(t *testing.T) {
	pub := &recordingPublisher{}
	s := NewScheduler(pub, "0 0 3 * * *", zerolog.Nop())
	require.NoError(t, s.Start())
	defer s.Stop()

	s.enqueueCleanup()

	require.Len(t, pub.tasks, 1)
	assert.Equal(t, TaskTokensCleanup, pub.tasks[0].Type)
}

func TestSchedulerWithoutQueueIsNoop(t *testing.T) {
	s := NewScheduler(nil, "bogus", zerolog.Nop())
	assert.NoError(t, s.Start())
}
