package engine

import (
	"github.com/agentguard/agentguard/internal/detectors"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// combine folds a detector result into a PolicyDecision per spec.md §4.6
// step 4: should_block+critical => deny; should_block+<critical => confirm;
// high/critical risk on a network-or-web3 action => confirm unless already
// deny; otherwise allow.
func combine(r detectors.Result, actionType policy.ActionType) policy.PolicyDecision {
	decision := policy.Allow

	switch {
	case r.ShouldBlock && r.RiskLevel == patterns.SeverityCritical:
		decision = policy.Deny
	case r.ShouldBlock:
		decision = policy.Confirm
	case (r.RiskLevel == patterns.SeverityHigh || r.RiskLevel == patterns.SeverityCritical) &&
		(actionType == policy.ActionNetworkRequest || actionType == policy.ActionWeb3Tx || actionType == policy.ActionWeb3Sign):
		decision = policy.Confirm
	}

	return policy.PolicyDecision{
		Decision:  decision,
		RiskLevel: r.RiskLevel,
		RiskTags:  r.RiskTags,
		Evidence:  r.Evidence,
	}
}
