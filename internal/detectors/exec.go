package detectors

import (
	"strings"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// Exec evaluates an exec_command action (spec.md §4.4.1).
func Exec(data policy.ExecData, caps capability.Set) Result {
	full := strings.ToLower(strings.TrimSpace(data.Command + " " + strings.Join(data.Args, " ")))
	full = strings.TrimSpace(full)

	var r Result

	if patterns.ForkBomb.MatchString(full) {
		r.lift(patterns.SeverityCritical)
		r.tag("DANGEROUS_COMMAND")
		r.ShouldBlock = true
		r.BlockReason = "fork bomb pattern detected"
		r.evidence(policy.Evidence{Type: "command", Match: full, Description: "fork bomb pattern detected"})
		return r
	}
	for _, d := range patterns.DangerousSubstrings {
		if d.MatchString(full) {
			r.lift(patterns.SeverityCritical)
			r.tag("DANGEROUS_COMMAND")
			r.ShouldBlock = true
			r.BlockReason = "dangerous command pattern: " + d.String()
			r.evidence(policy.Evidence{Type: "command", Match: full, Description: "matched dangerous command pattern"})
			return r
		}
	}

	hasMetachar := patterns.ShellMetacharacters.MatchString(full)
	sensitive := containsAny(full, patterns.SensitiveCommandPrefixes)

	if !hasMetachar && !sensitive && hasSafePrefix(full) {
		// Safe-command allowlist fast path: low risk, never blocked, even
		// if the skill's exec capability is denied (spec.md §4.4.1 step 3).
		// No risk tag is raised here: an allowed safe command carries an
		// empty tag set (spec.md §8 scenario 2).
		r.lift(patterns.SeverityLow)
		return r
	}

	if sensitive {
		r.lift(patterns.SeverityHigh)
		r.tag("SENSITIVE_DATA_ACCESS")
		r.evidence(policy.Evidence{Type: "command", Match: full, Description: "sensitive credential path accessed"})
	}
	if startsOrPreceded(full, patterns.SystemCommandPrefixes) {
		r.lift(patterns.SeverityMedium)
		r.tag("SYSTEM_COMMAND")
	}
	if startsOrPreceded(full, patterns.NetworkCommandPrefixes) {
		r.lift(patterns.SeverityMedium)
		r.tag("NETWORK_COMMAND")
	}
	for _, p := range patterns.ShellInjectionIndicators {
		if p.MatchString(full) {
			r.lift(patterns.SeverityMedium)
			r.tag("SHELL_INJECTION_RISK")
			break
		}
	}
	for key := range data.Env {
		upper := strings.ToUpper(key)
		for _, needle := range patterns.SensitiveEnvKeySubstrings {
			if strings.Contains(upper, needle) {
				r.tag("SENSITIVE_ENV_VAR")
				break
			}
		}
	}

	if caps.Exec != capability.ExecAllow && !r.ShouldBlock {
		r.ShouldBlock = true
		r.BlockReason = "Command execution not allowed"
	}

	return r
}

func matchesAny(full string, prefixes []string) bool {
	for _, p := range prefixes {
		if patterns.HasPrefixWord(full, p) {
			return true
		}
	}
	return false
}

func containsAny(full string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(full, n) {
			return true
		}
	}
	return false
}

func startsOrPreceded(full string, prefixes []string) bool {
	for _, p := range prefixes {
		if patterns.ContainsPrefixWord(full, p) {
			return true
		}
	}
	return false
}

func hasSafePrefix(full string) bool {
	return matchesAny(full, patterns.SafeCommandPrefixes)
}
