// Package cache backs the available-rooms lookup with Redis.
//
// Entries are namespaced by a generation counter: invalidation bumps the
// counter so every older entry becomes unreachable and expires on its own
// TTL, without scanning keys.
package cache

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/diewo77/hotel-backoffice/internal/config"
	"github.com/diewo77/hotel-backoffice/internal/services"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the configured Redis server. It returns nil when
// Redis is not configured or does not answer a ping within two seconds;
// callers then run without caching and rate limiting.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled() {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[redis] %s unreachable, caching disabled: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}
	log.Printf("[redis] connected to %s", cfg.Addr)
	return client
}

// RoomCache implements services.Cache on Redis.
type RoomCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New returns a Redis-backed cache, or nil when caching is disabled or no
// client is available.
func New(cfg config.CacheConfig, rdb *redis.Client) services.Cache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RoomCache{rdb: rdb, ttl: ttl, prefix: cfg.Prefix}
}

func genKey(prefix string) string { return prefix + ":rooms:gen" }

func entryKey(prefix string, gen int64, key string) string {
	return prefix + ":rooms:" + strconv.FormatInt(gen, 10) + ":" + key
}

func (c *RoomCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, genKey(c.prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get looks key up in the current generation and returns that generation
// for the matching Set.
func (c *RoomCache) Get(ctx context.Context, key string) ([]byte, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("[redis] cache generation: %v", err)
		return nil, -1, false
	}
	b, err := c.rdb.Get(ctx, entryKey(c.prefix, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[redis] cache get %s: %v", key, err)
		}
		return nil, gen, false
	}
	return b, gen, true
}

// Set stores value under gen. Once Invalidate has moved past gen the entry is
// unreachable and only waits for its TTL.
func (c *RoomCache) Set(ctx context.Context, gen int64, key string, value []byte) {
	if gen < 0 {
		return
	}
	if err := c.rdb.Set(ctx, entryKey(c.prefix, gen, key), value, c.ttl).Err(); err != nil {
		log.Printf("[redis] cache set %s: %v", key, err)
	}
}

// Invalidate drops every cached entry by moving to a new generation.
func (c *RoomCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(context.WithoutCancel(ctx), genKey(c.prefix)).Err(); err != nil {
		log.Printf("[redis] cache invalidate: %v", err)
	}
}
