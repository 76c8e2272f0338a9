package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/turnoshq/queue-service/internal/domain"
)

const boardKey = "queue:board"

// RedisBoardCache stores the waiting-room board snapshot as one JSON value
// with a short TTL. The board is polled every few seconds by every lobby
// display, so serving it from Redis keeps those reads off the database.
type RedisBoardCache struct {
	client *redis.Client
}

func NewRedisBoardCache(client *redis.Client) *RedisBoardCache {
	return &RedisBoardCache{client: client}
}

func (c *RedisBoardCache) Get(ctx context.Context) (domain.QueueBoard, bool, error) {
	raw, err := c.client.Get(ctx, boardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.QueueBoard{}, false, nil
	}
	if err != nil {
		return domain.QueueBoard{}, false, err
	}
	var board domain.QueueBoard
	if err := json.Unmarshal(raw, &board); err != nil {
		return domain.QueueBoard{}, false, err
	}
	return board, true, nil
}

func (c *RedisBoardCache) Set(ctx context.Context, board domain.QueueBoard, ttl time.Duration) error {
	raw, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, boardKey, raw, ttl).Err()
}

func (c *RedisBoardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, boardKey).Err()
}
