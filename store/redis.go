package store

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	ratelimit "github.com/naveenbhavnani/ratelimit-kit"
)

// keyPrefix namespaces limiter state within a shared Redis instance, distinct
// from the limiter's own namespaces so unrelated data can never collide.
const keyPrefix = "rlk:"

// RedisStore implements ratelimit.Store on a Redis backend, suitable for
// distributed deployments where multiple instances share limiter state.
//
// Each operation runs as a single Lua script so an individual load or save
// is atomic server-side. The load-compute-save sequence around a decision is
// still not atomic as a whole; see ratelimit.Limiter for what that implies
// under concurrent traffic on one key.
type RedisStore struct {
	client     *redis.Client
	loadScript *redis.Script
	saveScript *redis.Script
}

var (
	_ ratelimit.Store         = (*RedisStore)(nil)
	_ ratelimit.StoreResetter = (*RedisStore)(nil)
)

// NewRedis creates a RedisStore on top of an existing client.
// The Lua scripts are pre-compiled; go-redis loads them on first use and
// falls back to EVAL transparently.
func NewRedis(client *redis.Client) *RedisStore {
	// Reads the value and checks the remaining lifetime itself: a key that
	// outlived its expiry without being collected yet is deleted and
	// reported absent rather than served stale.
	const loadLua = `
		local value = redis.call("GET", KEYS[1])
		if not value then
			return false
		end
		local ttl = redis.call("PTTL", KEYS[1])
		if ttl <= 0 then
			redis.call("DEL", KEYS[1])
			return false
		end
		return value
	`

	// Writes the value, then sets its expiry in whole seconds.
	const saveLua = `
		redis.call("SET", KEYS[1], ARGV[1])
		redis.call("EXPIRE", KEYS[1], ARGV[2])
		return 1
	`

	return &RedisStore{
		client:     client,
		loadScript: redis.NewScript(loadLua),
		saveScript: redis.NewScript(saveLua),
	}
}

// Load fetches the state stored for key, or nil when the key is absent or
// already expired.
func (s *RedisStore) Load(ctx context.Context, key string) ([]byte, error) {
	res, err := s.loadScript.Run(ctx, s.client, []string{keyPrefix + key}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load: %v", ratelimit.ErrStoreFailure, err)
	}

	value, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("%w: load: unexpected reply type %T", ratelimit.ErrStoreFailure, res)
	}
	return []byte(value), nil
}

// Save writes state under key with an expiry of ttl rounded up to whole
// seconds. A ttl <= 0 deletes the key instead.
func (s *RedisStore) Save(ctx context.Context, key string, state []byte, ttl time.Duration) error {
	if ttl <= 0 {
		if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
			return fmt.Errorf("%w: save: %v", ratelimit.ErrStoreFailure, err)
		}
		return nil
	}

	seconds := int64(math.Ceil(ttl.Seconds()))
	err := s.saveScript.Run(ctx, s.client, []string{keyPrefix + key}, string(state), seconds).Err()
	if err != nil {
		return fmt.Errorf("%w: save: %v", ratelimit.ErrStoreFailure, err)
	}
	return nil
}

// Reset deletes the key.
func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: reset: %v", ratelimit.ErrStoreFailure, err)
	}
	return nil
}
