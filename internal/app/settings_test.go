package app_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/victormarques-ia/apex/internal/app"
)

func TestLoadSettingsDefaults(t *testing.T) {
	for _, key := range []string{"APEX_DB", "APEX_ACTOR_ID", "APEX_LOG_LEVEL", "APEX_ACTOR_ROLE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	s, err := app.LoadSettings(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.LogLevel != "warn" || s.ActorRole != "admin" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestLoadSettingsFromDotenv(t *testing.T) {
	t.Setenv("APEX_LOG_LEVEL", "")
	os.Unsetenv("APEX_LOG_LEVEL")
	t.Setenv("APEX_ACTOR_ROLE", "trainer")

	path := filepath.Join(t.TempDir(), ".env")
	content := "APEX_LOG_LEVEL=debug\nAPEX_ACTOR_ROLE=nutritionist\nAPEX_ACTOR_ID=t-1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("APEX_ACTOR_ID", "")
	os.Unsetenv("APEX_ACTOR_ID")

	s, err := app.LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.LogLevel != "debug" {
		t.Fatalf("expected log level from dotenv, got %q", s.LogLevel)
	}
	if s.ActorRole != "trainer" {
		t.Fatalf("expected environment to win over dotenv, got %q", s.ActorRole)
	}
	if s.ActorID != "t-1" {
		t.Fatalf("expected actor id from dotenv, got %q", s.ActorID)
	}
}
