package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	body = strings.ReplaceAll(body, "$UPLOADS", filepath.Join(dir, "uploads"))
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoadConfigNormalizes(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
storage:
  type: local
  local_path: $UPLOADS
locale:
  default: " EN "
  supported: [es, "FR", en, ""]
content:
  reflection_min_chars: 0
`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Locale.Default != "en" {
		t.Fatalf("default locale = %q", cfg.Locale.Default)
	}
	if strings.Join(cfg.Locale.Supported, ",") != "es,fr" {
		t.Fatalf("supported = %v", cfg.Locale.Supported)
	}
	if cfg.Content.ReflectionMinChars != 20 {
		t.Fatalf("reflection min chars = %d", cfg.Content.ReflectionMinChars)
	}
	if cfg.Content.VisitTimeout().Milliseconds() != 500 {
		t.Fatalf("visit timeout = %v", cfg.Content.VisitTimeout())
	}
	if cfg.Server.Port != "8080" || cfg.RateLimit.MaxRequests != 6000 {
		t.Fatalf("defaults not applied: %+v", cfg.Server)
	}
	if _, err := os.Stat(cfg.Storage.LocalPath); err != nil {
		t.Fatalf("local storage dir not created: %v", err)
	}
}

func TestLoadConfigRejectsWeakSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  local_path: $UPLOADS
`)
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected error for short secret in release mode")
	}
}
