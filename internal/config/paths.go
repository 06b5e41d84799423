package config

import (
	"os"
	"path/filepath"
)

// StateHomeEnv overrides the default state directory (spec.md §6).
const StateHomeEnv = "AGENTGUARD_HOME"

// StateHome resolves the directory holding registry.json, audit.jsonl,
// config.json, and policy.toml: AGENTGUARD_HOME if set, otherwise
// ~/.agentguard.
func StateHome() string {
	if v := os.Getenv(StateHomeEnv); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentguard"
	}
	return filepath.Join(home, ".agentguard")
}

// ConfigPath returns <state_home>/config.json.
func ConfigPath() string { return filepath.Join(StateHome(), "config.json") }

// RegistryPath returns <state_home>/registry.json.
func RegistryPath() string { return filepath.Join(StateHome(), "registry.json") }

// AuditPath returns <state_home>/audit.jsonl.
func AuditPath() string { return filepath.Join(StateHome(), "audit.jsonl") }

// PolicyOverridesPath returns <state_home>/policy.toml.
func PolicyOverridesPath() string { return filepath.Join(StateHome(), "policy.toml") }
