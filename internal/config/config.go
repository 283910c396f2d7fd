// Package config loads the optional heap.toml an embedder may ship
// alongside a binary: default placement policy, an advisory memory
// ceiling, a default log path, and a schema version. This is a convenience
// layer over SetPolicy/InitLog — it adds no new heap semantics.
package config

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"

	"github.com/BurntSushi/toml"
)

// schemaConstraint pins the config file formats this build understands,
// the same role Masterminds/semver plays for the teacher's package
// manifests (internal/packagemanager).
var schemaConstraint = mustConstraint(">= 1.0.0, < 2.0.0")

func mustConstraint(s string) *semver.Constraints {
	c, err := semver.NewConstraint(s)
	if err != nil {
		panic(fmt.Sprintf("config: invalid built-in schema constraint %q: %v", s, err))
	}

	return c
}

// HeapConfig is the on-disk shape of heap.toml.
type HeapConfig struct {
	SchemaVersion string `toml:"schema_version"`
	Policy        string `toml:"policy"`         // "first_fit" | "best_fit" | "worst_fit"
	LogPath       string `toml:"log_path"`       // "" disables logging
	MemoryLimit   uint64 `toml:"memory_limit"`   // advisory; 0 means unset
}

// Load reads and validates a HeapConfig from path.
func Load(path string) (*HeapConfig, error) {
	var cfg HeapConfig

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if cfg.SchemaVersion == "" {
		return nil, fmt.Errorf("config: %s: missing schema_version", path)
	}

	v, err := semver.NewVersion(cfg.SchemaVersion)
	if err != nil {
		return nil, fmt.Errorf("config: %s: invalid schema_version %q: %w", path, cfg.SchemaVersion, err)
	}

	if !schemaConstraint.Check(v) {
		return nil, fmt.Errorf("config: %s: schema_version %s does not satisfy %s", path, cfg.SchemaVersion, schemaConstraint)
	}

	switch cfg.Policy {
	case "", "first_fit", "best_fit", "worst_fit":
	default:
		return nil, fmt.Errorf("config: %s: unknown policy %q", path, cfg.Policy)
	}

	return &cfg, nil
}
