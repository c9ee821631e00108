package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webitel/video-exporter/internal/model"
)

const errorLogKey = "video_exporter:error_logs"

type RedisCache struct {
	client *redis.Client
	limit  int64
}

func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Ping Redis to check the connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cannot connect to Redis at %s: %w", addr, err)
	}

	return NewFromClient(rdb), nil
}

// NewFromClient wraps an existing client without pinging it.
func NewFromClient(rdb *redis.Client) *RedisCache {
	return &RedisCache{client: rdb, limit: model.MaxErrorLogEntries}
}

// AppendError pushes entry to the head of the log and trims the tail in one transaction.
func (r *RedisCache) AppendError(ctx context.Context, entry model.ErrorLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("video_exporter/redis: encode error entry: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, errorLogKey, data)
	pipe.LTrim(ctx, errorLogKey, 0, r.limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("video_exporter/redis: append error entry: %w", err)
	}
	return nil
}

func (r *RedisCache) ListErrors(ctx context.Context) ([]model.ErrorLogEntry, error) {
	raw, err := r.client.LRange(ctx, errorLogKey, 0, r.limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("video_exporter/redis: list error entries: %w", err)
	}

	entries := make([]model.ErrorLogEntry, 0, len(raw))
	for _, item := range raw {
		var entry model.ErrorLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			slog.WarnContext(ctx, "video_exporter.cache.corrupt_error_entry", slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
