package api

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"falcon-odds/internal/config"
	"falcon-odds/internal/engine"
)

func TestCacheKey_OrderIndependent(t *testing.T) {
	a := &config.Empire{Countdown: 9, BountyHunters: []config.BountyHunter{
		{Planet: "Hoth", Day: 6}, {Planet: "Endor", Day: 2}, {Planet: "Hoth", Day: 7},
	}}
	b := &config.Empire{Countdown: 9, BountyHunters: []config.BountyHunter{
		{Planet: "Hoth", Day: 7}, {Planet: "Hoth", Day: 6}, {Planet: "Endor", Day: 2},
	}}
	if CacheKey("m", a) != CacheKey("m", b) {
		t.Error("keys differ for the same plan in a different order")
	}
	if a.BountyHunters[0].Planet != "Hoth" {
		t.Error("CacheKey reordered the caller's hunters")
	}

	c := &config.Empire{Countdown: 10, BountyHunters: a.BountyHunters}
	if CacheKey("m", a) == CacheKey("m", c) {
		t.Error("countdown not part of the key")
	}
	if CacheKey("m", a) == CacheKey("other", a) {
		t.Error("mission fingerprint not part of the key")
	}
}

func TestMemoryCache_ExpiresByTTL(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	want := Outcome{Result: engine.Result{Probability: 0.9, Encounters: 1, Reached: true}}
	c.Set(ctx, "k", want)
	if got, ok := c.Get(ctx, "k"); !ok || got != want {
		t.Fatalf("Get = %+v %v, want hit %+v", got, ok, want)
	}
	if _, ok := c.Get(ctx, "other"); ok {
		t.Error("expected miss for unknown key")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss for expired entry")
	}
}

func TestMemoryCache_DisabledWithZeroTTL(t *testing.T) {
	c := NewMemoryCache(0)
	c.Set(context.Background(), "k", Outcome{})
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

func TestMemoryCache_FullDropsExpired(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < maxMemoryEntries; i++ {
		c.Set(ctx, fmt.Sprintf("k%d", i), Outcome{})
	}
	if c.Len() != maxMemoryEntries {
		t.Fatalf("Len = %d, want %d", c.Len(), maxMemoryEntries)
	}
	c.Set(ctx, "overflow", Outcome{})
	if _, ok := c.Get(ctx, "overflow"); ok {
		t.Error("full cache stored a new entry without evicting")
	}

	now = now.Add(2 * time.Minute)
	c.Set(ctx, "fresh", Outcome{})
	if _, ok := c.Get(ctx, "fresh"); !ok {
		t.Error("expired entries were not evicted")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

// countingCache records how often the server writes to it.
type countingCache struct {
	mu   sync.Mutex
	sets int
	m    map[string]Outcome
}

func (c *countingCache) Get(_ context.Context, key string) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out, ok := c.m[key]
	return out, ok
}

func (c *countingCache) Set(_ context.Context, key string, out Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.m[key] = out
}

func TestCompute_UsesInjectedCache(t *testing.T) {
	cache := &countingCache{m: make(map[string]Outcome)}
	srv := exampleServer(t, WithCache(cache))
	empire := &config.Empire{Countdown: 9, BountyHunters: []config.BountyHunter{
		{Planet: "Hoth", Day: 6}, {Planet: "Hoth", Day: 7}, {Planet: "Hoth", Day: 8},
	}}

	out, cached, err := srv.Compute(context.Background(), empire)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if cached || out.Probability != 0.9 || out.Encounters != 1 {
		t.Errorf("first Compute = %+v cached=%v", out, cached)
	}
	_, cached, err = srv.Compute(context.Background(), empire)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !cached {
		t.Error("second Compute was not served from cache")
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestNewRedisCache_URL(t *testing.T) {
	if _, err := NewRedisCache("not a url", time.Minute); err == nil {
		t.Error("expected error for invalid redis url")
	}
	c, err := NewRedisCache("redis://localhost:6379/0", time.Minute)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	if c.prefix == "" {
		t.Error("empty key prefix")
	}
}
