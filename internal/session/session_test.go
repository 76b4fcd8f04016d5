package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// testRedisClient returns a Redis client connected to the test Redis.
// Skips the test if Redis is unavailable.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "session:*").Result()
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

// requestWithCookie builds a request carrying the session cookie set on w.
func requestWithCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			req.AddCookie(c)
			return req
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionCreateAndGet(t *testing.T) {
	client := testRedisClient(t)
	store := NewStore(client, false)

	w := httptest.NewRecorder()
	ctx := context.Background()

	userID := uuid.New()
	id, err := store.Create(ctx, w, &Data{
		UserID:    userID,
		Email:     "reader@example.com",
		Nickname:  "reader",
		TwoFADone: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	req := requestWithCookie(t, w)
	data, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data == nil {
		t.Fatal("session not found")
	}
	if data.UserID != userID || data.Email != "reader@example.com" || !data.TwoFADone {
		t.Errorf("data = %+v", data)
	}
	if data.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestSessionGetWithoutCookie(t *testing.T) {
	client := testRedisClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Errorf("data = %+v, want nil", data)
	}
}

func TestSessionGetUnknownID(t *testing.T) {
	client := testRedisClient(t)
	store := NewStore(client, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "deadbeef"})

	data, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if data != nil {
		t.Errorf("data = %+v, want nil", data)
	}
}

func TestSessionUpdate(t *testing.T) {
	client := testRedisClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	data := &Data{UserID: uuid.New(), Email: "a@b.c", TwoFADone: false}
	if _, err := store.Create(ctx, w, data); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := requestWithCookie(t, w)
	data.TwoFADone = true
	if err := store.Update(ctx, req, data); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := store.Get(ctx, req)
	if err != nil || got == nil {
		t.Fatalf("get: %v", err)
	}
	if !got.TwoFADone {
		t.Error("update not persisted")
	}
}

func TestSessionDestroy(t *testing.T) {
	client := testRedisClient(t)
	store := NewStore(client, false)
	ctx := context.Background()

	w := httptest.NewRecorder()
	if _, err := store.Create(ctx, w, &Data{UserID: uuid.New()}); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := requestWithCookie(t, w)
	w2 := httptest.NewRecorder()
	if err := store.Destroy(ctx, w2, req); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	got, err := store.Get(ctx, req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("session should be gone")
	}

	// The cookie is expired on the response.
	var cleared bool
	for _, c := range w2.Result().Cookies() {
		if c.Name == CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("cookie should be expired")
	}
}
