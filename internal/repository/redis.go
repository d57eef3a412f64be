package repository

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// RedisSlotStore implements SlotStore with one Redis string per slot.
// Keys are laid out as "<prefix>:<namespace>:<slot>".
type RedisSlotStore struct {
	client *redis.Client
	prefix string
}

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// NewRedisSlotStore creates a slot store using client.
func NewRedisSlotStore(client *redis.Client, prefix string) *RedisSlotStore {
	return &RedisSlotStore{client: client, prefix: prefix}
}

func (s *RedisSlotStore) key(namespace, slot string) string {
	if s.prefix == "" {
		return namespace + ":" + slot
	}
	return s.prefix + ":" + namespace + ":" + slot
}

// Get returns the slot value and whether it exists.
func (s *RedisSlotStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	if err := ValidateSlotKey(key); err != nil {
		return "", false, err
	}
	v, err := s.client.Get(ctx, s.key(namespace, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Commit applies the mutations inside MULTI/EXEC.
func (s *RedisSlotStore) Commit(ctx context.Context, namespace string, mutations ...Mutation) error {
	if err := ValidateMutations(mutations); err != nil {
		return err
	}
	if len(mutations) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, m := range mutations {
			if m.Delete {
				pipe.Del(ctx, s.key(namespace, m.Key))
				continue
			}
			pipe.Set(ctx, s.key(namespace, m.Key), m.Value, 0)
		}
		return nil
	})
	return err
}

// Ping reports whether Redis is reachable.
func (s *RedisSlotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisSlotStore) Close() error {
	return s.client.Close()
}
