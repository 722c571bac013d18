package artifact

import (
	"context"
	"errors"
	"fmt"

	"community-resources-be/pkg/resource"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "community-resources:artifact:"

// RedisStore shares artifacts between instances through Redis. Keys carry
// no expiry; freshness is judged from the dataset's fetched_at.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func redisKey(c resource.Category) string {
	return redisKeyPrefix + string(c)
}

func (s *RedisStore) Load(ctx context.Context, c resource.Category) (*resource.Dataset, error) {
	b, err := s.rdb.Get(ctx, redisKey(c)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get artifact %s: %w", c, err)
	}
	return decode(c, b)
}

func (s *RedisStore) Save(ctx context.Context, d *resource.Dataset) error {
	b, err := encode(d)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKey(d.Category), b, 0).Err(); err != nil {
		return fmt.Errorf("redis set artifact %s: %w", d.Category, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, c resource.Category) error {
	if err := s.rdb.Del(ctx, redisKey(c)).Err(); err != nil {
		return fmt.Errorf("redis del artifact %s: %w", c, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(resource.Categories))
	for _, c := range resource.Categories {
		keys = append(keys, redisKey(c))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis clear artifacts: %w", err)
	}
	return nil
}
