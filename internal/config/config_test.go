package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "heap.toml")

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
schema_version = "1.0.0"
policy = "best_fit"
log_path = "/tmp/heap.log"
memory_limit = 1048576
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Policy != "best_fit" {
		t.Errorf("Policy = %q, want best_fit", cfg.Policy)
	}

	if cfg.MemoryLimit != 1048576 {
		t.Errorf("MemoryLimit = %d, want 1048576", cfg.MemoryLimit)
	}
}

func TestLoadMissingSchemaVersion(t *testing.T) {
	path := writeConfig(t, `policy = "first_fit"`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a missing schema_version")
	}
}

func TestLoadIncompatibleSchemaVersion(t *testing.T) {
	path := writeConfig(t, `schema_version = "2.0.0"`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a schema_version outside the supported range")
	}
}

func TestLoadUnknownPolicy(t *testing.T) {
	path := writeConfig(t, `
schema_version = "1.0.0"
policy = "random_fit"
`)

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unrecognized policy")
	}
}

func TestLoadDefaultsAreAccepted(t *testing.T) {
	path := writeConfig(t, `schema_version = "1.4.2"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Policy != "" {
		t.Errorf("Policy = %q, want empty default", cfg.Policy)
	}
}
