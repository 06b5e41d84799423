package doctor

import (
	"path/filepath"
	"testing"

	"github.com/agentguard/agentguard/internal/threatintel"
)

func TestRunFlagsMissingFilesAsWarnings(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		ConfigPath:   filepath.Join(dir, "config.json"),
		RegistryPath: filepath.Join(dir, "registry.json"),
		AuditPath:    filepath.Join(dir, "audit.jsonl"),
	}
	report := svc.Run()
	if !report.Healthy {
		t.Error("missing-but-creatable files should not be unhealthy")
	}
	if len(report.Findings) == 0 {
		t.Error("expected findings for missing config/registry/intel config")
	}
}

func TestRunReportsConfiguredThreatIntel(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		ConfigPath:   filepath.Join(dir, "config.json"),
		RegistryPath: filepath.Join(dir, "registry.json"),
		AuditPath:    filepath.Join(dir, "audit.jsonl"),
		IntelConfig:  threatintel.Config{APIKey: "k", APISecret: "s"},
	}
	report := svc.Run()
	for _, f := range report.Findings {
		if f.Code == "INTEL_UNCONFIGURED" {
			t.Error("did not expect INTEL_UNCONFIGURED when credentials are set")
		}
	}
}
