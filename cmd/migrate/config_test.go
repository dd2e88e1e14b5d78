package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationsDir_EnvOverride(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "/custom/migrations")

	if got := migrationsDir(); got != "/custom/migrations" {
		t.Fatalf("expected MIGRATIONS_DIR override, got %q", got)
	}
	if got := createDir(); got != "/custom/migrations" {
		t.Fatalf("expected create dir to follow MIGRATIONS_DIR, got %q", got)
	}
}

func TestMigrationsDir_Default(t *testing.T) {
	t.Setenv("MIGRATIONS_DIR", "")

	if got := migrationsDir(); got != "" {
		t.Fatalf("expected embedded migrations by default, got %q", got)
	}
	if got := createDir(); got != "db/migrations" {
		t.Fatalf("expected default create dir, got %q", got)
	}
}

func TestDBDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	if got := dbDriver(); got != "postgres" {
		t.Fatalf("expected postgres default, got %q", got)
	}

	t.Setenv("DB_DRIVER", "sqlite")
	if got := dbDriver(); got != "sqlite" {
		t.Fatalf("expected sqlite, got %q", got)
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, ".env")

	if err := os.WriteFile(p, []byte("DB_DSN=from_file\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	t.Setenv("DB_DSN", "from_env")
	t.Chdir(tmp)

	loadEnvFiles()

	if got := os.Getenv("DB_DSN"); got != "from_env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
}
