package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const tripCacheTTL = 10 * time.Minute

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("Connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("Waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// CacheTrip stores a trip's serialised JSON with TTL.
func (c *Client) CacheTrip(ctx context.Context, tripID string, data []byte) error {
	return c.rdb.Set(ctx, "trip:"+tripID, data, tripCacheTTL).Err()
}

// GetCachedTrip retrieves a cached trip's JSON. Returns nil bytes on miss.
func (c *Client) GetCachedTrip(ctx context.Context, tripID string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, "trip:"+tripID).Bytes()
	if err == goredis.Nil {
		return nil, nil
	}
	return data, err
}

// InvalidateTrip drops a trip from the cache (seat counts and status change
// on booking and triage paths).
func (c *Client) InvalidateTrip(ctx context.Context, tripID string) error {
	return c.rdb.Del(ctx, "trip:"+tripID).Err()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }
