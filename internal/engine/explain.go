package engine

import (
	"strings"

	"github.com/agentguard/agentguard/pkg/policy"
)

// explain builds the user-visible explanation string carried by every
// deny/confirm decision (spec.md §7: "every deny/ask carries explanation
// string with decision driver, risk tags in brackets, initiating skill if
// known; allow carries no user-visible output").
func explain(decision policy.Decision, tags []string, initiatingSkill string) string {
	if decision == policy.Allow {
		return ""
	}

	var b strings.Builder
	if decision == policy.Deny {
		b.WriteString("Blocked")
	} else {
		b.WriteString("Needs confirmation")
	}
	if len(tags) > 0 {
		b.WriteString(" [")
		b.WriteString(strings.Join(tags, ", "))
		b.WriteString("]")
	}
	if initiatingSkill != "" {
		b.WriteString(" (initiating skill: ")
		b.WriteString(initiatingSkill)
		b.WriteString(")")
	}
	return b.String()
}
