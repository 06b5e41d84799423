// Package engine implements the Action Scanner (spec.md §4.6): the
// dispatcher that looks up a skill's effective trust, short-circuits on
// sensitive paths, runs the appropriate detector, folds in Web3 threat
// intelligence, and applies the untrusted-skill capability overlay to
// produce a final PolicyDecision. Decide never raises; every path
// terminates in a PolicyDecision (spec.md §7).
package engine

import (
	"context"

	"github.com/agentguard/agentguard/internal/audit"
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/detectors"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/internal/registry"
	"github.com/agentguard/agentguard/internal/threatintel"
	"github.com/agentguard/agentguard/pkg/policy"
)

// Engine is the Action Scanner facade, grounded on the teacher's
// orchestration-service pattern: a thin struct wiring together the
// registry, detectors, threat-intel client, and audit log behind a single
// entry point.
type Engine struct {
	Registry   *registry.Store
	ThreatIntel *threatintel.Client
	Audit      *audit.Logger
}

// New constructs an Engine from its collaborators. ThreatIntel and Audit
// may be nil: a nil ThreatIntel degrades every Web3 lookup to unavailable,
// a nil Audit silently skips logging.
func New(reg *registry.Store, intel *threatintel.Client, auditLog *audit.Logger) *Engine {
	return &Engine{Registry: reg, ThreatIntel: intel, Audit: auditLog}
}

// Decide is the exported decide(envelope) -> PolicyDecision entry point
// (spec.md §6).
func (e *Engine) Decide(ctx context.Context, env policy.ActionEnvelope) policy.PolicyDecision {
	lookup := e.Registry.Lookup(env.Actor.Skill)
	caps := lookup.EffectiveCapabilities

	var decision policy.PolicyDecision

	if env.Action.Type == policy.ActionWriteFile && env.Action.File != nil &&
		patterns.MatchesSensitivePath(env.Action.File.Path) {
		decision = policy.PolicyDecision{
			Decision:  policy.Deny,
			RiskLevel: patterns.SeverityCritical,
			RiskTags:  []string{"SENSITIVE_PATH"},
			Evidence:  []policy.Evidence{{Type: "path", Match: env.Action.File.Path, Description: "write targets a sensitive credential/config path"}},
		}
	} else if env.Action.Type == policy.ActionWeb3Tx && env.Action.Web3Tx != nil {
		decision = e.decideWeb3Tx(ctx, *env.Action.Web3Tx, caps, env.Context)
	} else {
		result := detectors.Detect(env.Action, caps)
		decision = combine(result, env.Action.Type)
	}

	decision = e.applyUntrustedOverlay(decision, env)
	decision.EffectiveCapabilities = snapshot(caps)
	decision.Explanation = explain(decision.Decision, decision.RiskTags, env.Context.InitiatingSkill)

	e.logAudit(env, decision)
	return decision
}

func snapshot(caps capability.Set) *policy.EffectiveCapabilities {
	return &policy.EffectiveCapabilities{
		NetworkAllowlist:    caps.NetworkAllowlist,
		FilesystemAllowlist: caps.FilesystemAllowlist,
		Exec:                string(caps.Exec),
		SecretsAllowlist:    caps.SecretsAllowlist,
	}
}

func (e *Engine) logAudit(env policy.ActionEnvelope, decision policy.PolicyDecision) {
	if e.Audit == nil {
		return
	}
	summary := actionSummary(env.Action)
	if len(summary) > 200 {
		summary = summary[:200]
	}
	_ = e.Audit.Log(audit.Event{
		ToolName:         string(env.Action.Type),
		ToolInputSummary: summary,
		Decision:         string(decision.Decision),
		RiskLevel:        decision.RiskLevel.String(),
		RiskTags:         decision.RiskTags,
		InitiatingSkill:  env.Context.InitiatingSkill,
	})
}

func actionSummary(a policy.Action) string {
	switch a.Type {
	case policy.ActionExecCommand:
		if a.Exec != nil {
			return a.Exec.Command
		}
	case policy.ActionNetworkRequest:
		if a.Network != nil {
			return a.Network.Method + " " + a.Network.URL
		}
	case policy.ActionReadFile, policy.ActionWriteFile:
		if a.File != nil {
			return a.File.Path
		}
	case policy.ActionSecretAccess:
		if a.Secret != nil {
			return a.Secret.SecretName
		}
	case policy.ActionWeb3Tx:
		if a.Web3Tx != nil {
			return a.Web3Tx.To
		}
	case policy.ActionWeb3Sign:
		if a.Web3Sign != nil {
			return a.Web3Sign.ChainID
		}
	}
	return string(a.Type)
}
