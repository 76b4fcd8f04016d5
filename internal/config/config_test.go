package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.RedisAddr() != "localhost:6379" {
		t.Errorf("RedisAddr() = %q", cfg.RedisAddr())
	}
}

func TestLoadProductionRequiresPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for default password in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() should be false in production")
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "links")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "postgres://app:pw@db.internal:5433/links?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN() = %q, want %q", cfg.DSN(), want)
	}
}
