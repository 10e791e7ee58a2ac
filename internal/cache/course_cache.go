package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lms/api/internal/models"
)

// ErrMiss is returned when the requested entry is not cached.
var ErrMiss = errors.New("cache miss")

const (
	courseListKey   = "lms:courses:list"
	courseKeyPrefix = "lms:courses:"
)

// CourseCache keeps the public course catalog in Redis as JSON.
type CourseCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCourseCache(client *redis.Client, ttl time.Duration) *CourseCache {
	return &CourseCache{client: client, ttl: ttl}
}

func (c *CourseCache) GetList(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.get(ctx, courseListKey, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *CourseCache) SetList(ctx context.Context, courses []models.Course) error {
	return c.set(ctx, courseListKey, courses)
}

func (c *CourseCache) Get(ctx context.Context, id string) (models.Course, error) {
	var course models.Course
	if err := c.get(ctx, courseKeyPrefix+id, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

func (c *CourseCache) Set(ctx context.Context, course models.Course) error {
	return c.set(ctx, courseKeyPrefix+course.ID, course)
}

// Invalidate drops the list and, when ids are given, those courses.
func (c *CourseCache) Invalidate(ctx context.Context, ids ...string) error {
	keys := []string{courseListKey}
	for _, id := range ids {
		keys = append(keys, courseKeyPrefix+id)
	}
	return c.client.Del(ctx, keys...).Err()
}

// Flush drops every cached catalog entry.
func (c *CourseCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, courseKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan course keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *CourseCache) get(ctx context.Context, key string, out any) error {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *CourseCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
