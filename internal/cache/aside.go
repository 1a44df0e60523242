package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"askme/internal/middleware"
	"askme/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetJSON reads key and unmarshals it into dest.
// It returns (false, nil) on a miss or when caching is disabled.
func GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if client == nil {
		return false, nil
	}
	raw, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, b, ttl).Err()
}

// Aside serves dest from Redis when possible, otherwise calls fetch to fill
// dest and stores the result. Cache failures never fail the call.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := GetJSON(ctx, key, dest)
	switch {
	case err != nil:
		observability.CacheLookups.WithLabelValues("error").Inc()
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	case found:
		observability.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	default:
		observability.CacheLookups.WithLabelValues("miss").Inc()
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}
