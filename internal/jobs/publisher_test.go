package jobs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStreamPublisherAppendsTask(t *testing.T) {
	client := newTestRedis(t)
	pub := NewStreamPublisher(client, "lms:tasks")
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, MediaPurgeTask("videos", []string{"a.mp4", "b.webm"})))
	require.NoError(t, pub.Publish(ctx, TokensCleanupTask()))

	entries, err := client.XRange(ctx, "lms:tasks", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, TaskMediaPurge, entries[0].Values["type"])
	assert.Equal(t, "videos", entries[0].Values["bucket"])
	assert.Equal(t, "a.mp4,b.webm", entries[0].Values["objects"])
	assert.Equal(t, TaskTokensCleanup, entries[1].Values["type"])
}
