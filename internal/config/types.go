// Package config loads the engine's runtime configuration: the mandatory
// JSON protection-level document (spec.md §6) plus an optional TOML
// policy-overrides file recovered from the teacher's scan-rule disabling
// knob (spec.md's SUPPLEMENTED FEATURES).
package config

import "github.com/agentguard/agentguard/pkg/policy"

// SchemaVersion is the config.json schema version this build understands.
const SchemaVersion = 1

// Config is the JSON document at <state_home>/config.json.
type Config struct {
	Version            int                    `json:"version"`
	Level              policy.ProtectionLevel `json:"level"`
	AutoRegisterScans  bool                   `json:"autoRegisterScans"`
}

// PolicyOverrides is the optional TOML document at <state_home>/policy.toml,
// adapted from the teacher's ScanConfig.DisabledRules knob to this domain's
// rule catalog.
type PolicyOverrides struct {
	DisabledRuleIDs []string `toml:"disabled_rule_ids,omitempty"`
	TrustedSources  []string `toml:"trusted_sources,omitempty"`
}
