package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testRedisClient returns a Redis client for tests. Skips if Redis is
// unavailable.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "summary:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestSummaryCacheRoundTrip(t *testing.T) {
	client := testRedisClient(t)
	c := NewSummaryCache(client, time.Minute)
	ctx := context.Background()

	link := "https://example.com/cached-article"

	if _, ok := c.Get(ctx, link); ok {
		t.Fatal("unexpected hit before set")
	}

	if err := c.Set(ctx, link, "a short summary"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, ok := c.Get(ctx, link)
	if !ok || got != "a short summary" {
		t.Errorf("get = %q, %v", got, ok)
	}

	// Different links don't collide.
	if _, ok := c.Get(ctx, link+"?other"); ok {
		t.Error("unexpected hit for different link")
	}

	c.Invalidate(ctx, link)
	if _, ok := c.Get(ctx, link); ok {
		t.Error("hit after invalidate")
	}
}

func TestSummaryCacheTTL(t *testing.T) {
	client := testRedisClient(t)
	c := NewSummaryCache(client, 50*time.Millisecond)
	ctx := context.Background()

	link := "https://example.com/short-lived"
	if err := c.Set(ctx, link, "gone soon"); err != nil {
		t.Fatalf("set: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := c.Get(ctx, link); ok {
		t.Error("entry should have expired")
	}
}

func TestSummaryKeyStableAndBounded(t *testing.T) {
	long := "https://example.com/?q=" + string(make([]byte, 10_000))
	k1 := summaryKey(long)
	k2 := summaryKey(long)
	if k1 != k2 {
		t.Error("key not deterministic")
	}
	if len(k1) > 80 {
		t.Errorf("key length = %d, should stay bounded", len(k1))
	}
}
