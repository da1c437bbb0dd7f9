package config

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_URL, or from REDIS_HOST,
// REDIS_PORT, REDIS_PASSWORD, REDIS_DB and REDIS_TLS. Callers that get an
// error should run without caching and rate limiting.
func NewRedisClient(ctx context.Context) (*redis.Client, error) {
	var opts *redis.Options
	if u := os.Getenv("REDIS_URL"); u != "" {
		parsed, err := redis.ParseURL(u)
		if err != nil {
			return nil, errors.Wrap(err, "invalid REDIS_URL")
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     getenv("REDIS_HOST", "localhost") + ":" + getenv("REDIS_PORT", "6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		}
		if envBool("REDIS_TLS", false) {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "failed to ping redis at %s", opts.Addr)
	}
	return client, nil
}
