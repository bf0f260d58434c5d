package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"genealogy-app-go/pkg/logger"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Redis.SnapshotTTL != 5*time.Minute {
		t.Fatalf("expected 5m snapshot ttl, got %v", cfg.Redis.SnapshotTTL)
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("expected 30m conn lifetime, got %v", cfg.DB.ConnMaxLifetime)
	}
}

func TestParseRequiresSecretUnlessSkipAuth(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("AUTH_SKIP", "false")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected missing secret error")
	}

	t.Setenv("AUTH_SKIP", "true")
	t.Setenv("AUTH_MOCK_USER_ID", "42")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Auth.MockUserID != 42 {
		t.Fatalf("expected mock user 42, got %d", cfg.Auth.MockUserID)
	}
}

func TestParseCORSOrigins(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestGetDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://x", Host: "h"}
	if cfg.GetDSN() != "postgres://x" {
		t.Fatalf("expected explicit dsn")
	}
	built := DBConfig{Host: "h", User: "u", Password: "p", Name: "n", Port: "1", SSLMode: "disable", TimeZone: "UTC"}.GetDSN()
	if built != "host=h user=u password=p dbname=n port=1 sslmode=disable TimeZone=UTC" {
		t.Fatalf("unexpected dsn %q", built)
	}
}

func TestLoadDotEnvKeepsExistingEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GENEALOGY_TEST_A=file\nGENEALOGY_TEST_B=file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("GENEALOGY_TEST_A", "env")
	t.Setenv("GENEALOGY_TEST_B", "")
	os.Unsetenv("GENEALOGY_TEST_B")

	if err := loadDotEnv(logger.Nop()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := os.Getenv("GENEALOGY_TEST_A"); got != "env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
	if got := os.Getenv("GENEALOGY_TEST_B"); got != "file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
