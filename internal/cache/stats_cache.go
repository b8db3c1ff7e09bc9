// Package cache holds the optional stats snapshot caches. Every toggle invalidates the
// snapshot, so a cached read is always the stats of the latest committed registry.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/redis/go-redis/v9"
)

const statsKey = "floortrack:stats"

// RedisStatsCache keeps the snapshot in redis so several API replicas share it.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (*domain.Stats, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read stats cache: %w", err)
	}
	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false, fmt.Errorf("failed to decode stats cache: %w", err)
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write stats cache: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate stats cache: %w", err)
	}
	return nil
}

// LocalStatsCache is a single-process snapshot cache.
type LocalStatsCache struct {
	mu      sync.Mutex
	stats   *domain.Stats
	expires time.Time
	ttl     time.Duration
	now     func() time.Time
}

func NewLocalStatsCache(ttl time.Duration) *LocalStatsCache {
	return &LocalStatsCache{ttl: ttl, now: time.Now}
}

func (c *LocalStatsCache) Get(_ context.Context) (*domain.Stats, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || (c.ttl > 0 && c.now().After(c.expires)) {
		return nil, false, nil
	}
	cp := copyStats(*c.stats)
	return &cp, true, nil
}

func (c *LocalStatsCache) Set(_ context.Context, stats *domain.Stats) error {
	cp := copyStats(*stats)
	c.mu.Lock()
	c.stats = &cp
	c.expires = c.now().Add(c.ttl)
	c.mu.Unlock()
	return nil
}

func (c *LocalStatsCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	c.stats = nil
	c.mu.Unlock()
	return nil
}

func copyStats(s domain.Stats) domain.Stats {
	if s.AgeSegmentation != nil {
		s.AgeSegmentation = append(make([]domain.AgeBand, 0, len(s.AgeSegmentation)), s.AgeSegmentation...)
	}
	if s.Departments != nil {
		s.Departments = append(make([]domain.DepartmentOutput, 0, len(s.Departments)), s.Departments...)
	}
	return s
}
