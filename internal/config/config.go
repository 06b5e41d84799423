package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/agentguard/agentguard/internal/fsutil"
	"github.com/agentguard/agentguard/pkg/policy"
)

// DefaultConfig returns the fully-populated default document: balanced
// protection level, scan-only registry behavior (spec.md §9's Open
// Question, resolved as scan-only by default).
func DefaultConfig() Config {
	return Config{
		Version:           SchemaVersion,
		Level:             policy.LevelBalanced,
		AutoRegisterScans: false,
	}
}

// Ensure loads path, creating it with DefaultConfig if it does not exist
// (grounded on the teacher's config.Ensure).
func Ensure(path string) (Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg = DefaultConfig()
	if err := Save(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and validates a config.json document.
func Load(path string) (Config, error) {
	if path == "" {
		path = ConfigPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("DOC_CONFIG_PARSE: %w", err)
	}
	cfg = normalize(cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save validates and atomically writes cfg to path.
func Save(path string, cfg Config) error {
	if path == "" {
		path = ConfigPath()
	}
	cfg = normalize(cfg)
	if err := validate(cfg); err != nil {
		return err
	}
	blob, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("DOC_CONFIG_ENCODE: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, blob, 0o644)
}

func normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Level == "" {
		cfg.Level = policy.LevelBalanced
	}
	return cfg
}

func validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("DOC_CONFIG_VERSION: unsupported version %d", cfg.Version)
	}
	switch cfg.Level {
	case policy.LevelStrict, policy.LevelBalanced, policy.LevelPermissive:
	default:
		return fmt.Errorf("DOC_CONFIG_LEVEL: invalid protection level %q", cfg.Level)
	}
	return nil
}

// LoadPolicyOverrides reads the optional TOML overrides file. A missing
// file is not an error: it returns a zero-value PolicyOverrides.
func LoadPolicyOverrides(path string) (PolicyOverrides, error) {
	if path == "" {
		path = PolicyOverridesPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PolicyOverrides{}, nil
		}
		return PolicyOverrides{}, err
	}
	var out PolicyOverrides
	if err := toml.Unmarshal(data, &out); err != nil {
		return PolicyOverrides{}, fmt.Errorf("DOC_POLICY_PARSE: %w", err)
	}
	return out, nil
}

// SavePolicyOverrides atomically writes overrides as TOML.
func SavePolicyOverrides(path string, overrides PolicyOverrides) error {
	if path == "" {
		path = PolicyOverridesPath()
	}
	blob, err := toml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("DOC_POLICY_ENCODE: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return fsutil.AtomicWrite(path, blob, 0o644)
}
