package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps walks in Redis. Each walk is a JSON string with a native
// TTL; a set at prefix+"index" tracks IDs for listing.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client. An empty prefix defaults to
// "slidegraph:walk:".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "slidegraph:walk:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

func (s *RedisStore) indexKey() string { return s.prefix + "index" }

func (s *RedisStore) Get(ctx context.Context, id string) (*Walk, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get walk: %w", err)
	}

	var w Walk
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse walk: %w", err)
	}
	if w.IsExpired() {
		return nil, ErrNotFound
	}
	return &w, nil
}

func (s *RedisStore) Set(ctx context.Context, w *Walk) error {
	if err := ValidateID(w.ID); err != nil {
		return err
	}
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal walk: %w", err)
	}

	var ttl time.Duration
	if !w.ExpiresAt.IsZero() {
		ttl = time.Until(w.ExpiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, w.ID)
		}
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.key(w.ID), data, ttl)
		p.SAdd(ctx, s.indexKey(), w.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set walk: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key(id))
		p.SRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete walk: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context) ([]*Walk, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list walks: %w", err)
	}
	var out []*Walk
	for _, id := range ids {
		w, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, w)
	}
	sortRecent(out)
	return out, nil
}

// Cleanup prunes index entries whose walk has expired. Redis drops the walk
// values on its own.
func (s *RedisStore) Cleanup(ctx context.Context) error {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return fmt.Errorf("redis list walks: %w", err)
	}
	for _, id := range ids {
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return fmt.Errorf("redis exists: %w", err)
		}
		if n == 0 {
			if err := s.client.SRem(ctx, s.indexKey(), id).Err(); err != nil {
				return fmt.Errorf("redis prune index: %w", err)
			}
		}
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
