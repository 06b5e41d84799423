package engine

import (
	"context"
	"sync"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/detectors"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/internal/threatintel"
	"github.com/agentguard/agentguard/pkg/policy"
)

// decideWeb3Tx implements the Web3 decision combination of spec.md §4.5:
// chain-allowlist check, phishing-origin check, target-address reputation
// check, optional transaction simulation, tx_policy application, and the
// user-not-present escalation. The three threat-intel lookups are fanned
// out concurrently and awaited together (spec.md §5) rather than chained.
func (e *Engine) decideWeb3Tx(ctx context.Context, data policy.Web3TxData, caps capability.Set, actionCtx policy.Context) policy.PolicyDecision {
	chainResult := detectors.Web3Tx(data, caps)
	if chainResult.ShouldBlock {
		return policy.PolicyDecision{
			Decision:  policy.Deny,
			RiskLevel: chainResult.RiskLevel,
			RiskTags:  chainResult.RiskTags,
			Evidence:  chainResult.Evidence,
		}
	}

	var (
		phishing  threatintel.PhishingResult
		addresses threatintel.AddressSecurityResult
		sim       threatintel.SimulationResult
	)

	if e.ThreatIntel != nil {
		var wg sync.WaitGroup
		wg.Add(3)
		go func() { defer wg.Done(); phishing = e.ThreatIntel.PhishingSite(ctx, data.Origin) }()
		go func() {
			defer wg.Done()
			addresses = e.ThreatIntel.AddressSecurity(ctx, data.ChainID, []string{data.To})
		}()
		go func() {
			defer wg.Done()
			sim = e.ThreatIntel.SimulateTransaction(ctx, threatintel.SimulationRequest{
				ChainID: data.ChainID, From: data.From, To: data.To, Value: data.Value, Data: data.Data,
			})
		}()
		wg.Wait()
	} else {
		phishing.Unavailable = true
		addresses.Unavailable = true
		sim.Unavailable = true
	}

	decision := policy.Allow
	risk := patterns.SeverityLow
	var tags []string
	var evidence []policy.Evidence

	if phishing.Unavailable || addresses.Unavailable {
		tags = appendTag(tags, "SIMULATION_UNAVAILABLE")
	}

	if phishing.IsPhishing {
		decision = policy.Deny
		risk = patterns.Max(risk, patterns.SeverityCritical)
		tags = appendTag(tags, "PHISHING_ORIGIN")
		evidence = append(evidence, policy.Evidence{Type: "origin", Match: data.Origin, Description: "origin flagged as a known phishing site"})
	}

	addr := addresses.Addresses[data.To]
	if addr.IsBlacklisted || addr.IsPhishingActivities || addr.IsStealingAttack {
		decision = policy.Deny
		risk = patterns.Max(risk, patterns.SeverityCritical)
		tags = appendTag(tags, "MALICIOUS_ADDRESS")
		evidence = append(evidence, policy.Evidence{Type: "address", Match: data.To, Description: "target address flagged as malicious"})
	} else if addr.IsHoneypotRelatedAddr {
		risk = patterns.Max(risk, patterns.SeverityHigh)
		tags = appendTag(tags, "HONEYPOT_RELATED")
	}

	if decision != policy.Deny && !sim.Unavailable {
		for _, a := range sim.ApprovalChanges {
			if a.IsUnlimited {
				risk = patterns.Max(risk, patterns.SeverityHigh)
				tags = appendTag(tags, "UNLIMITED_APPROVAL")
				if decision == policy.Allow {
					decision = policy.Confirm
				}
				break
			}
		}
		for _, t := range sim.RiskTags {
			tags = appendTag(tags, t)
		}
		switch sim.RiskLevel {
		case "critical":
			risk = patterns.Max(risk, patterns.SeverityCritical)
		case "high":
			risk = patterns.Max(risk, patterns.SeverityHigh)
		}
	}

	if caps.Web3 != nil {
		switch caps.Web3.TxPolicy {
		case capability.TxDeny:
			decision = policy.Deny
		case capability.TxConfirmHighRisk:
			if decision == policy.Allow && risk != patterns.SeverityLow {
				decision = policy.Confirm
			}
		}
	}

	if decision == policy.Confirm && !actionCtx.UserPresent {
		decision = policy.Deny
		tags = appendTag(tags, "user_not_present")
		evidence = append(evidence, policy.Evidence{Type: "context", Field: "userPresent", Description: "confirm downgraded to deny: no user present to confirm"})
	}

	return policy.PolicyDecision{
		Decision:  decision,
		RiskLevel: risk,
		RiskTags:  tags,
		Evidence:  evidence,
	}
}
