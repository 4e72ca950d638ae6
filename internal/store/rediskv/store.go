// internal/store/rediskv/store.go
package rediskv

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV keeps each collection under one redis string key, so the medium
// stays a plain key-value surface addressed by the stable collection names.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(url string) (*RedisKV, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisKV{client: client}, nil
}

func (s *RedisKV) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *RedisKV) Read(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisKV) Write(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
