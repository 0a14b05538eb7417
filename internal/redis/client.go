package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	apperrors "github.com/shubm18/Poll-Battel/internal/platform/errors"
)

// NewClient creates a go-redis client from a URL (e.g. "redis://localhost:6379"),
// installs the given hooks and verifies the connection with a PING.
func NewClient(ctx context.Context, redisURL string, hooks ...goredis.Hook) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)
	for _, h := range hooks {
		client.AddHook(h)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

type pinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// HealthCheck pings Redis and reports failures as an unavailable dependency.
func HealthCheck(client pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return apperrors.ExternalError("redis unavailable", err)
		}
		return nil
	}
}
