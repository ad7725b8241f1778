package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return New(rdb), nil
}

// New wraps an existing redis client
func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func processedKey(eventID string) string {
	return fmt.Sprintf("processed_event:%s", eventID)
}

// MarkEventProcessed records eventID and reports whether this call was the
// first to see it.
func (c *Client) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, processedKey(eventID), time.Now().Unix(), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("mark event processed failed: %w", err)
	}
	return ok, nil
}

// UnmarkEventProcessed forgets eventID so a redelivery is processed again
func (c *Client) UnmarkEventProcessed(ctx context.Context, eventID string) error {
	return c.rdb.Del(ctx, processedKey(eventID)).Err()
}
