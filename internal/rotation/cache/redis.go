package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/config"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
)

const reportKey = "gooms:rotation:report"

// RedisReportCache stores the serialized rotation report in Redis. The TTL
// should exceed the refresh interval so a healthy service never serves an
// expired key.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisReportCache connects to Redis and verifies the connection
func NewRedisReportCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisReportCache{
		client: client,
		ttl:    cfg.TTL,
		logger: log,
	}, nil
}

// SetReport stores the report under a fixed key with the configured TTL
func (c *RedisReportCache) SetReport(ctx context.Context, report *service.RotationReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal rotation report: %w", err)
	}

	if err := c.client.Set(ctx, reportKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rotation report: %w", err)
	}

	return nil
}

// GetReport returns the cached report, or nil on a miss
func (c *RedisReportCache) GetReport(ctx context.Context) (*service.RotationReport, error) {
	data, err := c.client.Get(ctx, reportKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached rotation report: %w", err)
	}

	var report service.RotationReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached rotation report: %w", err)
	}

	return &report, nil
}

// Close closes the underlying Redis client
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Health pings Redis
func (c *RedisReportCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
