package app_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/victormarques-ia/apex/internal/app"
)

func TestDatabasePathPrecedence(t *testing.T) {
	t.Parallel()
	s := app.Settings{DBPath: "/var/lib/apex/env.db"}

	got, err := s.DatabasePath("/tmp/flag.db")
	if err != nil || got != "/tmp/flag.db" {
		t.Fatalf("expected flag override, got %q err=%v", got, err)
	}
	got, err = s.DatabasePath("  ")
	if err != nil || got != "/var/lib/apex/env.db" {
		t.Fatalf("expected env path, got %q err=%v", got, err)
	}
	got, err = app.Settings{}.DatabasePath("")
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join("apex", "apex.db")) {
		t.Fatalf("expected default under apex dir, got %q", got)
	}
}

func TestEnsureDBDirCreatesParents(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "apex.db")
	if err := app.EnsureDBDir(path); err != nil {
		t.Fatalf("ensure db dir: %v", err)
	}
	info, err := os.Stat(filepath.Dir(path))
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory to exist, err=%v", err)
	}
}
