package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:v1:"

// RedisStore is the durable session store backed by Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store. A zero ttl keeps
// sessions until an explicit logout.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, token string, identity Identity) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist session record: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, token string) (Identity, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err == redis.Nil {
		return Identity{}, ErrNoSession
	}
	if err != nil {
		return Identity{}, fmt.Errorf("read session record: %w", err)
	}
	var identity Identity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return Identity{}, fmt.Errorf("decode session record: %w", err)
	}
	return identity, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session record: %w", err)
	}
	return nil
}
