// handler_test.go provides shared infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Redis are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"linkkeep/internal/ai"
	"linkkeep/internal/cache"
	"linkkeep/internal/category"
	"linkkeep/internal/database"
	"linkkeep/internal/middleware"
	"linkkeep/internal/models"
	"linkkeep/internal/ranking"
	"linkkeep/internal/session"
	"linkkeep/internal/store"
)

// mockAIProvider implements ai.Provider for handler tests.
type mockAIProvider struct {
	name     string
	response string
	err      error
}

func (m *mockAIProvider) Name() string { return m.name }
func (m *mockAIProvider) Summarize(_ context.Context, _ ai.SummarizeRequest) (string, error) {
	return m.response, m.err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "linkkeep")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "linkkeep")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testRedisClient returns a Redis client for handler tests on DB 15.
func testRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Redis not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "summary:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Redis       *redis.Client
	Sessions    *session.Store
	Users       *store.UserStore
	CatStore    *store.CategoryStore
	Contents    *store.ContentStore
	Colls       *store.CollectionStore
	SaveLog     *store.SaveLogStore
	CatService  *category.Service
	Ranker      *ranking.Ranker
	Auth        *Auth
	Categories  *Categories
	ContentH    *Contents
	Collections *Collections
}

// newTestEnv creates a complete test environment with all handler
// dependencies. The AI registry holds a single mock provider named "test".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	rc := testRedisClient(t)

	sessions := session.NewStore(rc, false)
	users := store.NewUserStore(db)
	catStore := store.NewCategoryStore(db)
	contents := store.NewContentStore(db)
	colls := store.NewCollectionStore(db)
	saveLog := store.NewSaveLogStore(db)
	tx := store.NewTxRunner(db)

	catService := category.NewService(catStore, contents, tx)
	ranker := ranking.NewRanker(saveLog, catStore, contents)

	registry := ai.NewRegistry()
	registry.Register(&mockAIProvider{name: "test", response: "mock summary"})
	summaries := cache.NewSummaryCache(rc, time.Minute)

	return &testEnv{
		DB:          db,
		Redis:       rc,
		Sessions:    sessions,
		Users:       users,
		CatStore:    catStore,
		Contents:    contents,
		Colls:       colls,
		SaveLog:     saveLog,
		CatService:  catService,
		Ranker:      ranker,
		Auth:        NewAuth(sessions, users, saveLog),
		Categories:  NewCategories(catService, ranker),
		ContentH:    NewContents(contents, catService, ranker, summaries, registry, "test", nil),
		Collections: NewCollections(colls, contents),
	}
}

// newTestUser creates a user with a unique email and returns it.
func newTestUser(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	email := "test-" + uuid.NewString() + "@example.com"
	user, err := env.Users.Create(context.Background(), email, "password123", "tester")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		env.Users.Delete(context.Background(), user.ID)
	})
	return user
}

// authed builds a JSON request carrying a session for the given user.
func authed(t *testing.T, user *models.User, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	sess := &session.Data{UserID: user.ID, Email: user.Email, TwoFADone: true}
	ctx := context.WithValue(req.Context(), middleware.SessionKey, sess)
	return req.WithContext(ctx)
}

// sessionCookie opens a real Redis-backed session for the user and returns
// its cookie, for handlers that write the session back.
func sessionCookie(t *testing.T, env *testEnv, user *models.User) *http.Cookie {
	t.Helper()

	rec := httptest.NewRecorder()
	_, err := env.Sessions.Create(context.Background(), rec, &session.Data{
		UserID: user.ID, Email: user.Email, TwoFADone: true,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a recorder body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
