// Package redis wraps go-redis with the connection lifecycle the
// service needs for status tracking and stream consumption.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client embeds *redis.Client so callers get every driver method
// (Set, XReadGroup, ...) directly, plus the raw client itself under
// its embedded field name for packages that need it explicitly.
type Client struct {
	*redis.Client
}

// NewClient dials addr and verifies the connection with a PING.
func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", addr).Msg("Connected to Redis")

	return &Client{Client: rdb}, nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
