package detectors

import (
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

func chainAllowed(chainID string, caps capability.Set) bool {
	if caps.Web3 == nil {
		return false
	}
	for _, c := range caps.Web3.ChainsAllowlist {
		if c == chainID {
			return true
		}
	}
	return false
}

// Web3Tx evaluates a web3_tx action (spec.md §4.4.5). It only checks the
// chain allowlist; threat-intel-informed combination (phishing, address
// reputation, simulation, tx_policy application) happens in the Action
// Scanner dispatcher per spec.md §4.5.
func Web3Tx(data policy.Web3TxData, caps capability.Set) Result {
	var r Result
	if !chainAllowed(data.ChainID, caps) {
		r.lift(patterns.SeverityHigh)
		r.tag("CHAIN_NOT_ALLOWED")
		r.ShouldBlock = true
		r.BlockReason = "chain not present in web3 chains allowlist"
		r.evidence(policy.Evidence{Type: "chain", Match: data.ChainID, Description: "chain_id not in chains_allowlist"})
	}
	return r
}

// Web3Sign evaluates a web3_sign action (spec.md §4.4.5).
func Web3Sign(data policy.Web3SignData, caps capability.Set) Result {
	var r Result

	if !chainAllowed(data.ChainID, caps) {
		r.lift(patterns.SeverityHigh)
		r.tag("CHAIN_NOT_ALLOWED")
		r.ShouldBlock = true
		r.BlockReason = "chain not present in web3 chains allowlist"
		r.evidence(policy.Evidence{Type: "chain", Match: data.ChainID, Description: "chain_id not in chains_allowlist"})
		return r
	}

	if patterns.PermitPattern.MatchString(data.TypedData) {
		r.lift(patterns.SeverityMedium)
		r.tag("PERMIT_SIGNATURE")
		r.ShouldBlock = true
		r.BlockReason = "typed data contains an EIP-2612 Permit message"
		r.evidence(policy.Evidence{Type: "typedData", Description: "typed data contains an EIP-2612 Permit message"})
	}
	if m := patterns.UnlimitedValuePattern.FindString(data.TypedData); m != "" {
		r.lift(patterns.SeverityHigh)
		r.tag("UNLIMITED_VALUE")
		r.evidence(policy.Evidence{Type: "typedData", Match: m, Description: "typed data encodes an unbounded value"})
	}
	if secret, match, found := patterns.HighestSecretMatch(data.Message); found && secret.Severity() == patterns.SeverityCritical {
		r.lift(patterns.SeverityCritical)
		r.tag("SECRET_IN_SIGNATURE")
		r.ShouldBlock = true
		r.BlockReason = "signed message contains a critical secret pattern"
		r.evidence(policy.Evidence{Type: "message", Match: match, Description: "matched secret pattern " + secret.ID})
	}

	return r
}
