package detectors

import (
	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// File evaluates a read_file or write_file action (spec.md §4.4.3). The
// sensitive-path write short-circuit (spec.md §4.6 step 2) runs earlier in
// the Action Scanner dispatcher, before any detector is invoked; this
// function only applies the filesystem allowlist.
func File(data policy.FileData, caps capability.Set, isWrite bool) Result {
	var r Result

	if capability.MatchAllowlist(caps.FilesystemAllowlist, data.Path) {
		r.lift(patterns.SeverityLow)
		return r
	}

	r.lift(patterns.SeverityMedium)
	r.tag("PATH_NOT_ALLOWED")
	r.evidence(policy.Evidence{Type: "path", Match: data.Path, Description: "path not present in filesystem allowlist"})
	r.ShouldBlock = true
	r.BlockReason = "path not allowed by filesystem capability"
	return r
}
