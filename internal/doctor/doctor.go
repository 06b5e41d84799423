// Package doctor implements the health-check aggregator (spec.md's
// SUPPLEMENTED FEATURES), grounded on the teacher's doctor.Service: it
// validates the config file, checks that the registry file exists, creates
// the audit log's directory, and reports the threat intel client's
// configuration status, surfacing actionable findings rather than a bare
// pass/fail. registry.Open does not report a malformed registry file, so
// REG_INVALID is not raised for one.
package doctor

import (
	"os"
	"path/filepath"

	"github.com/agentguard/agentguard/internal/config"
	"github.com/agentguard/agentguard/internal/registry"
	"github.com/agentguard/agentguard/internal/threatintel"
)

// Finding is one health-check observation.
type Finding struct {
	Code    string `json:"code"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Report is the aggregate health-check result.
type Report struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

// Service runs the health check against the state directory's files.
type Service struct {
	ConfigPath   string
	RegistryPath string
	AuditPath    string
	IntelConfig  threatintel.Config
}

// Run executes every check and aggregates the findings.
func (s *Service) Run() Report {
	var findings []Finding

	if _, err := os.Stat(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_MISSING", Level: "warn", Message: "config.json not found, defaults will be used on first run"})
	} else if _, err := config.Load(s.ConfigPath); err != nil {
		findings = append(findings, Finding{Code: "DOC_CONFIG_INVALID", Level: "error", Message: err.Error()})
	}

	if _, err := os.Stat(s.RegistryPath); err != nil {
		findings = append(findings, Finding{Code: "REG_MISSING", Level: "warn", Message: "registry.json not found, every skill will resolve untrusted"})
	} else if _, err := registry.Open(s.RegistryPath); err != nil {
		findings = append(findings, Finding{Code: "REG_INVALID", Level: "error", Message: err.Error()})
	}

	if dir := filepath.Dir(s.AuditPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			findings = append(findings, Finding{Code: "AUDIT_UNWRITABLE", Level: "warn", Message: "audit log directory is not writable: " + err.Error()})
		}
	}

	if !s.IntelConfig.Configured() {
		findings = append(findings, Finding{
			Code: "INTEL_UNCONFIGURED", Level: "warn",
			Message: "GOPLUS_API_KEY/GOPLUS_API_SECRET not set, Web3 actions degrade to rule-based evaluation only",
		})
	}

	healthy := true
	for _, f := range findings {
		if f.Level == "error" {
			healthy = false
			break
		}
	}
	return Report{Healthy: healthy, Findings: findings}
}
