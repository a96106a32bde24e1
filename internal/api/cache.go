package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"

	"falcon-odds/internal/config"
	"falcon-odds/internal/logger"
)

// OddsCache stores computed outcomes by cache key.
type OddsCache interface {
	Get(ctx context.Context, key string) (Outcome, bool)
	Set(ctx context.Context, key string, out Outcome)
}

// CacheKey identifies an empire plan for a mission. Hunter order does not
// matter: the plan is sorted before hashing.
func CacheKey(fingerprint string, e *config.Empire) string {
	hunters := make([]config.BountyHunter, len(e.BountyHunters))
	copy(hunters, e.BountyHunters)
	sort.Slice(hunters, func(i, j int) bool {
		if hunters[i].Planet != hunters[j].Planet {
			return hunters[i].Planet < hunters[j].Planet
		}
		return hunters[i].Day < hunters[j].Day
	})

	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n", fingerprint, e.Countdown)
	for _, b := range hunters {
		fmt.Fprintf(h, "%q@%d\n", b.Planet, b.Day)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// memoryEntry holds a cached outcome and its expiry.
type memoryEntry struct {
	out     Outcome
	expires time.Time
}

// maxMemoryEntries bounds the in-memory cache.
const maxMemoryEntries = 4096

// MemoryCache is a thread-safe in-process TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty cache. A non-positive ttl disables caching.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the outcome stored under key if it has not expired.
func (c *MemoryCache) Get(_ context.Context, key string) (Outcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return Outcome{}, false
	}
	return e.out, true
}

// Set stores out under key. When the cache is full, expired entries are
// dropped first; if none expired the new entry is not stored.
func (c *MemoryCache) Set(_ context.Context, key string, out Outcome) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= maxMemoryEntries {
		for k, e := range c.entries {
			if now.After(e.expires) {
				delete(c.entries, k)
			}
		}
		if len(c.entries) >= maxMemoryEntries {
			return
		}
	}
	c.entries[key] = memoryEntry{out: out, expires: now.Add(c.ttl)}
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache shares outcomes between server instances through Redis.
// Redis failures are logged and treated as misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisCache connects lazily to the Redis server at url
// (redis://[:password@]host:port/db).
func NewRedisCache(url string, ttl time.Duration) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{rdb: redis.NewClient(opt), ttl: ttl, prefix: "falcon:odds:"}, nil
}

// Ping checks that the Redis server answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

// Close releases the Redis connections.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

func (c *RedisCache) Get(ctx context.Context, key string) (Outcome, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("Cache", fmt.Sprintf("redis get: %v", err))
		}
		return Outcome{}, false
	}
	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("Cache", fmt.Sprintf("decode cached outcome: %v", err))
		return Outcome{}, false
	}
	return out, true
}

func (c *RedisCache) Set(ctx context.Context, key string, out Outcome) {
	if c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.rdb.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		logger.Warn("Cache", fmt.Sprintf("redis set: %v", err))
	}
}
