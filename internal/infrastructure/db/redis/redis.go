package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Config points at the Redis instance holding revoked tokens.
type Config struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the startup check; zero means 5s.
	PingTimeout time.Duration
}

// Connect opens the revocation store and pings it once. A store that cannot
// be reached at startup is an error; later faults surface per request.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	wait := cfg.PingTimeout
	if wait <= 0 {
		wait = pingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	return client, nil
}
