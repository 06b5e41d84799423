package engine

import (
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// applyUntrustedOverlay implements spec.md §4.6 step 5: when the envelope
// names a non-empty initiating_skill, that skill's own registry standing is
// checked too, looked up by ID whether or not it is the same skill as the
// actor. An initiating skill with no active
// record is treated as read-only ("can_read=true, everything else false");
// attempting anything else surfaces as a confirm. An initiating skill with
// an active record whose capabilities forbid the action type surfaces as a
// deny, since that skill has already been evaluated and found wanting.
func (e *Engine) applyUntrustedOverlay(decision policy.PolicyDecision, env policy.ActionEnvelope) policy.PolicyDecision {
	skillID := env.Context.InitiatingSkill
	if skillID == "" {
		return decision
	}

	rec, found := e.Registry.LookupByID(skillID)
	if !found {
		synthetic := capability.Set{Exec: capability.ExecDeny}
		if actionAllowedBy(env.Action.Type, synthetic, true) {
			return decision
		}
		return escalate(decision, policy.Confirm, patterns.SeverityHigh, "UNTRUSTED_SKILL")
	}

	if !actionAllowedBy(env.Action.Type, rec.Capabilities, false) {
		return escalate(decision, policy.Deny, patterns.SeverityHigh, "CAPABILITY_EXCEEDED")
	}
	return decision
}

// actionAllowedBy reports whether caps permits actionType. readOnly
// represents the synthetic "can_read only" overlay capability set, which
// AsBooleans() cannot express since it has no filesystem allowlist to
// derive CanRead from.
func actionAllowedBy(actionType policy.ActionType, caps capability.Set, readOnly bool) bool {
	switch actionType {
	case policy.ActionReadFile:
		return readOnly || len(caps.FilesystemAllowlist) > 0
	case policy.ActionWriteFile:
		return !readOnly && len(caps.FilesystemAllowlist) > 0
	case policy.ActionExecCommand:
		return !readOnly && caps.Exec == capability.ExecAllow
	case policy.ActionNetworkRequest:
		return !readOnly && len(caps.NetworkAllowlist) > 0
	case policy.ActionSecretAccess:
		return !readOnly && len(caps.SecretsAllowlist) > 0
	case policy.ActionWeb3Tx, policy.ActionWeb3Sign:
		return !readOnly && caps.Web3 != nil && len(caps.Web3.ChainsAllowlist) > 0
	default:
		return false
	}
}

// escalate raises decision to at least floor/minRisk and appends tag,
// never downgrading an already-stricter outcome (deny dominates confirm
// dominates allow).
func escalate(decision policy.PolicyDecision, floor policy.Decision, minRisk patterns.Severity, tag string) policy.PolicyDecision {
	if rank(decision.Decision) < rank(floor) {
		decision.Decision = floor
	}
	decision.RiskLevel = patterns.Max(decision.RiskLevel, minRisk)
	decision.RiskTags = appendTag(decision.RiskTags, tag)
	return decision
}

func rank(d policy.Decision) int {
	switch d {
	case policy.Deny:
		return 2
	case policy.Confirm:
		return 1
	default:
		return 0
	}
}

func appendTag(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
