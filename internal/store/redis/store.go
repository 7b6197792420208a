package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/quizdrop/internal/models"
	"github.com/shrimpsizemoose/quizdrop/internal/store"
)

// RedisStore keeps the JSON document as a single string value.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(config *store.DBConfig) (*RedisStore, error) {
	opt, err := redis.ParseURL(config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client, config.Document), nil
}

func NewRedisStoreWithClient(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = store.DefaultDocument
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *RedisStore) ApplyMigrations(string) error {
	return nil
}

func (s *RedisStore) Load(ctx context.Context) ([]models.Submission, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return nil, store.ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("redis error: %w", err)
	}
	return store.Decode(data)
}

func (s *RedisStore) Save(ctx context.Context, records []models.Submission) error {
	data, err := store.Encode(records)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", s.key, err)
	}
	return nil
}
