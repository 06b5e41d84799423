// Package detectors implements the per-action-type detectors (spec.md
// §4.4): pure functions that take an action plus the effective capability
// set and return a risk assessment. None perform I/O or suspend; all
// network/filesystem/threat-intel access happens before or after a
// detector runs, never inside one (spec.md §5).
package detectors

import (
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// Result is a detector's raw output, combined by the Action Scanner
// dispatcher into a policy.PolicyDecision (spec.md §4.4, §4.6).
type Result struct {
	RiskLevel    patterns.Severity
	RiskTags     []string
	Evidence     []policy.Evidence
	ShouldBlock  bool
	BlockReason  string
}

func (r *Result) tag(tag string) {
	for _, t := range r.RiskTags {
		if t == tag {
			return
		}
	}
	r.RiskTags = append(r.RiskTags, tag)
}

func (r *Result) lift(level patterns.Severity) {
	r.RiskLevel = patterns.Max(r.RiskLevel, level)
}

func (r *Result) evidence(ev policy.Evidence) {
	r.Evidence = append(r.Evidence, ev)
}

// Detect dispatches action to its per-type pure function. Unknown action
// types fail closed to a deny with ENGINE_ERROR, matching spec.md §7's
// "detector internal errors => deny+ENGINE_ERROR" rule.
func Detect(action policy.Action, caps capability.Set) Result {
	switch action.Type {
	case policy.ActionExecCommand:
		if action.Exec == nil {
			return engineError("exec_command action missing exec data")
		}
		return Exec(*action.Exec, caps)
	case policy.ActionNetworkRequest:
		if action.Network == nil {
			return engineError("network_request action missing network data")
		}
		return Network(*action.Network, caps)
	case policy.ActionReadFile, policy.ActionWriteFile:
		if action.File == nil {
			return engineError("file action missing file data")
		}
		return File(*action.File, caps, action.Type == policy.ActionWriteFile)
	case policy.ActionSecretAccess:
		if action.Secret == nil {
			return engineError("secret_access action missing secret data")
		}
		return Secret(*action.Secret, caps)
	case policy.ActionWeb3Tx:
		if action.Web3Tx == nil {
			return engineError("web3_tx action missing web3Tx data")
		}
		return Web3Tx(*action.Web3Tx, caps)
	case policy.ActionWeb3Sign:
		if action.Web3Sign == nil {
			return engineError("web3_sign action missing web3Sign data")
		}
		return Web3Sign(*action.Web3Sign, caps)
	default:
		return engineError("unrecognized action type")
	}
}

func engineError(reason string) Result {
	r := Result{RiskLevel: patterns.SeverityCritical, ShouldBlock: true, BlockReason: "ENGINE_ERROR: " + reason}
	r.tag("ENGINE_ERROR")
	return r
}
