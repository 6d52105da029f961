package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flashcard_study/internal/middleware"
	"flashcard_study/internal/model"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "flashcards:"

type redisKVStore struct {
	client *redis.Client
}

// NewRedisKVStore returns a KVStore that keeps each document under
// "flashcards:<key>".
func NewRedisKVStore(client *redis.Client) KVStore {
	return &redisKVStore{client: client}
}

// NewRedisClient parses url and checks the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}
	return client, nil
}

func (s *redisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error reading key from Redis", "error", err, "key", key)
		return nil, fmt.Errorf("redisKVStore.Get: %w", err)
	}
	return v, nil
}

func (s *redisKVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, 0).Err(); err != nil {
		middleware.GetLogger(ctx).Error("Error writing key to Redis", "error", err, "key", key)
		return fmt.Errorf("redisKVStore.Set: %w", err)
	}
	return nil
}

func (s *redisKVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		middleware.GetLogger(ctx).Error("Error deleting key from Redis", "error", err, "key", key)
		return fmt.Errorf("redisKVStore.Delete: %w", err)
	}
	return nil
}
