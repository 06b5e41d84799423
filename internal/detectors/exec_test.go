package detectors

import (
	"testing"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

func TestExecForkBombAlwaysBlocks(t *testing.T) {
	r := Exec(policy.ExecData{Command: ":(){ :|:& };:"}, capability.None())
	if !r.ShouldBlock {
		t.Fatal("expected fork bomb to block")
	}
	if r.RiskLevel != patterns.SeverityCritical {
		t.Errorf("expected critical, got %v", r.RiskLevel)
	}
}

func TestExecDangerousCommandDominatesEvenWithExecAllowed(t *testing.T) {
	caps := capability.Set{Exec: capability.ExecAllow}
	r := Exec(policy.ExecData{Command: "rm -rf /"}, caps)
	if !r.ShouldBlock {
		t.Fatal("expected rm -rf to block regardless of exec capability")
	}
}

func TestExecSafeCommandAllowedEvenWhenExecDenied(t *testing.T) {
	r := Exec(policy.ExecData{Command: "git status"}, capability.None())
	if r.ShouldBlock {
		t.Errorf("expected safe command not to be blocked, reason=%q", r.BlockReason)
	}
	if r.RiskLevel != patterns.SeverityLow {
		t.Errorf("expected low risk for safe command, got %v", r.RiskLevel)
	}
}

func TestExecSafeCommandWithShellMetacharIsNotFastPathed(t *testing.T) {
	r := Exec(policy.ExecData{Command: "git status; rm -rf /tmp/x"}, capability.Set{Exec: capability.ExecAllow})
	for _, tag := range r.RiskTags {
		if tag == "SAFE_COMMAND" {
			t.Errorf("did not expect SAFE_COMMAND tag when shell metacharacters present")
		}
	}
}

func TestExecDeniedBlocksNonSafeCommand(t *testing.T) {
	r := Exec(policy.ExecData{Command: "node server.js"}, capability.None())
	if !r.ShouldBlock {
		t.Error("expected exec-denied to block a non-safe command")
	}
	if r.BlockReason != "Command execution not allowed" {
		t.Errorf("unexpected block reason: %q", r.BlockReason)
	}
}

func TestExecSensitiveCommandTagsHighRisk(t *testing.T) {
	r := Exec(policy.ExecData{Command: "cat ~/.ssh/id_rsa"}, capability.Set{Exec: capability.ExecAllow})
	if r.RiskLevel < patterns.SeverityHigh {
		t.Errorf("expected at least high risk, got %v", r.RiskLevel)
	}
	found := false
	for _, tag := range r.RiskTags {
		if tag == "SENSITIVE_DATA_ACCESS" {
			found = true
		}
	}
	if !found {
		t.Error("expected SENSITIVE_DATA_ACCESS tag")
	}
}

func TestExecSensitiveEnvVarTagged(t *testing.T) {
	r := Exec(policy.ExecData{
		Command: "node server.js",
		Env:     map[string]string{"STRIPE_API_KEY": "sk_live_x"},
	}, capability.Set{Exec: capability.ExecAllow})
	found := false
	for _, tag := range r.RiskTags {
		if tag == "SENSITIVE_ENV_VAR" {
			found = true
		}
	}
	if !found {
		t.Error("expected SENSITIVE_ENV_VAR tag")
	}
}
