package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewWithClient(client), mr
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := map[string]int{"pending": 3, "completed": 7}
	if err := c.SetJSON(ctx, "stats", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out map[string]int
	if err := c.GetJSON(ctx, "stats", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out["pending"] != 3 || out["completed"] != 7 {
		t.Fatalf("unexpected value: %v", out)
	}
}

func TestCacheMissOnAbsentKey(t *testing.T) {
	c, _ := newTestCache(t)

	var out map[string]int
	err := c.GetJSON(context.Background(), "absent", &out)
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
}

func TestCacheMissAfterTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "stats", 1, time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var out int
	if err := c.GetJSON(ctx, "stats", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss after expiry, got %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", 1, time.Minute); err != nil {
		t.Fatalf("nil set should be a no-op, got %v", err)
	}
	var out int
	if err := c.GetJSON(ctx, "k", &out); !errors.Is(err, ErrMiss) {
		t.Fatalf("nil get should miss, got %v", err)
	}
}
