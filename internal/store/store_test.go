// store_test.go provides shared infrastructure for store integration
// tests. Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"linkkeep/internal/database"
	"linkkeep/internal/models"
)

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

// testUser creates a user owning the test's rows; deleting it cascades
// everything away.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	users := NewUserStore(db)
	email := "store-" + uuid.NewString() + "@example.com"
	user, err := users.Create(context.Background(), email, "password123", "store tester")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		users.Delete(context.Background(), user.ID)
	})
	return user
}

// mustSaveCategory inserts a category directly through the store.
func mustSaveCategory(t *testing.T, s *CategoryStore, ownerID uuid.UUID, name, slug string, parentID *uuid.UUID) *models.Category {
	t.Helper()
	cat, err := s.Save(context.Background(), &models.Category{
		OwnerID:  ownerID,
		Name:     name,
		Slug:     slug,
		IconName: models.IconNone,
		ParentID: parentID,
	})
	if err != nil {
		t.Fatalf("save category %q: %v", name, err)
	}
	return cat
}
