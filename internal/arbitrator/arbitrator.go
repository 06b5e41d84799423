// Package arbitrator implements the Protection-Level Arbitrator (spec.md
// §4.7): the final mapping from a raw (decision, risk_level) pair plus the
// user's chosen protection level to the exit-facing verdict the hook
// adapter acts on.
package arbitrator

import "github.com/agentguard/agentguard/pkg/policy"

// Arbitrate maps a PolicyDecision's decision+risk_level through level,
// per the spec.md §4.7 table. sensitivePath and hasInitiatingSkill control
// the permissive-level downgrade exception for sensitive-path writes
// (spec.md §4.7: "remains deny under strict/balanced; in permissive,
// downgrade to ask only when no initiating skill is attributed").
func Arbitrate(level policy.ProtectionLevel, decision policy.Decision, risk policy.Severity, sensitivePath, hasInitiatingSkill bool) policy.Verdict {
	if sensitivePath {
		switch level {
		case policy.LevelPermissive:
			if !hasInitiatingSkill {
				return policy.VerdictAsk
			}
			return policy.VerdictDeny
		default:
			return policy.VerdictDeny
		}
	}

	switch level {
	case policy.LevelStrict:
		if decision == policy.Allow {
			return policy.VerdictAllow
		}
		return policy.VerdictDeny

	case policy.LevelBalanced:
		switch decision {
		case policy.Deny:
			return policy.VerdictDeny
		case policy.Confirm:
			return policy.VerdictAsk
		default:
			return policy.VerdictAllow
		}

	case policy.LevelPermissive:
		switch decision {
		case policy.Deny:
			if risk == policy.SeverityCritical {
				return policy.VerdictDeny
			}
			return policy.VerdictAsk
		case policy.Confirm:
			if risk == policy.SeverityHigh || risk == policy.SeverityCritical {
				return policy.VerdictAsk
			}
			return policy.VerdictAllow
		default:
			return policy.VerdictAllow
		}

	default:
		// Unrecognized level: fail closed to balanced semantics.
		return Arbitrate(policy.LevelBalanced, decision, risk, sensitivePath, hasInitiatingSkill)
	}
}
