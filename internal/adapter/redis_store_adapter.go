package adapter

import (
	"context"
	"errors"
	"quiz-repair/internal/domain"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStoreAdapter implements the domain.QuizStore interface using a Redis client.
type RedisStoreAdapter struct {
	client *redis.Client
}

// NewRedisStoreAdapter creates a new instance of RedisStoreAdapter.
// It expects a connected *redis.Client.
func NewRedisStoreAdapter(client *redis.Client) domain.QuizStore {
	return &RedisStoreAdapter{client: client}
}

// Ping checks the health of the Redis server.
func (r *RedisStoreAdapter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// ReplaceTree implements QuizStore.ReplaceTree. The previous members of index
// are read first; deletion and writes then run in a single MULTI/EXEC.
func (r *RedisStoreAdapter) ReplaceTree(ctx context.Context, index string, hashes map[string]map[string]string, ttl time.Duration) error {
	previous, err := r.client.SMembers(ctx, index).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	replaced := make([]string, 0, len(hashes))
	keys := make([]string, 0, len(hashes))
	for key, fields := range hashes {
		replaced = append(replaced, key)
		if len(fields) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	obsolete := union(previous, replaced, index)

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, obsolete...)
		for _, key := range keys {
			pipe.HSet(ctx, key, fieldPairs(hashes[key])...)
			if ttl > 0 {
				pipe.Expire(ctx, key, ttl)
			}
		}
		if len(keys) > 0 {
			members := make([]interface{}, len(keys))
			for i, key := range keys {
				members[i] = key
			}
			pipe.SAdd(ctx, index, members...)
		}
		return nil
	})
	return err
}

// HGetAll implements QuizStore.HGetAll
func (r *RedisStoreAdapter) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	val, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCacheMiss
		}
		return nil, err
	}
	if len(val) == 0 {
		return nil, domain.ErrCacheMiss
	}
	return val, nil
}

// fieldPairs flattens fields into HSET arguments ordered by field name.
func fieldPairs(fields map[string]string) []interface{} {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]interface{}, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, fields[name])
	}
	return pairs
}

// union returns the sorted distinct keys of previous and current, followed by extra.
func union(previous, current []string, extra string) []string {
	seen := make(map[string]struct{}, len(previous)+len(current))
	out := make([]string, 0, len(previous)+len(current)+1)
	for _, list := range [][]string{previous, current} {
		for _, key := range list {
			if _, ok := seen[key]; ok || key == extra {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return append(out, extra)
}
