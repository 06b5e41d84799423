package detectors

import (
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// Secret evaluates a secret_access action (spec.md §4.4.4).
func Secret(data policy.SecretData, caps capability.Set) Result {
	var r Result

	for _, allowed := range caps.SecretsAllowlist {
		if allowed == data.SecretName {
			r.lift(patterns.SeverityLow)
			return r
		}
	}

	r.lift(patterns.SeverityHigh)
	r.tag("SECRET_NOT_ALLOWED")
	r.evidence(policy.Evidence{Type: "secret", Match: data.SecretName, Description: "secret not present in secrets allowlist"})
	r.ShouldBlock = true
	r.BlockReason = "secret access not allowed by capability"
	return r
}
