package detectors

import (
	"net/url"
	"strings"

	"github.com/agentguard/agentguard/internal/capability"
	"github.com/agentguard/agentguard/internal/patterns"
	"github.com/agentguard/agentguard/pkg/policy"
)

// Network evaluates a network_request action (spec.md §4.4.2).
func Network(data policy.NetworkData, caps capability.Set) Result {
	var r Result

	u, err := url.Parse(data.URL)
	if err != nil || u.Host == "" {
		r.lift(patterns.SeverityHigh)
		r.tag("INVALID_URL")
		r.ShouldBlock = true
		r.BlockReason = "INVALID_URL: could not parse request URL"
		r.evidence(policy.Evidence{Type: "url", Match: data.URL, Description: "malformed or hostless URL"})
		return r
	}
	host := strings.ToLower(u.Hostname())
	method := strings.ToUpper(data.Method)
	isWrite := method == "POST" || method == "PUT"

	allowed := capability.MatchAllowlist(caps.NetworkAllowlist, host)

	if patterns.IsWebhookDomain(host) && !allowed {
		r.lift(patterns.SeverityHigh)
		r.tag("WEBHOOK_EXFIL")
		r.ShouldBlock = true
		r.BlockReason = "request targets a known webhook/exfiltration relay"
		r.evidence(policy.Evidence{Type: "host", Field: "host", Match: host, Description: "known webhook/exfil domain"})
	}

	if secret, match, found := patterns.HighestSecretMatch(data.BodyPreview); found {
		sev := secret.Severity()
		if sev >= patterns.SeverityCritical {
			r.lift(patterns.SeverityCritical)
			r.tag("CRITICAL_SECRET_EXFIL")
			r.ShouldBlock = true
			r.BlockReason = "request body contains a critical secret pattern"
		} else {
			r.lift(sev)
			r.tag("POTENTIAL_SECRET_EXFIL")
		}
		r.evidence(policy.Evidence{Type: "body", Field: "bodyPreview", Match: match, Description: "matched secret pattern " + secret.ID})
	}

	if patterns.HasHighRiskTLD(host) && !allowed {
		r.lift(patterns.SeverityMedium)
		r.tag("HIGH_RISK_TLD")
		if isWrite {
			r.lift(patterns.SeverityHigh)
		}
	}

	if len(caps.NetworkAllowlist) > 0 && !allowed {
		r.tag("UNTRUSTED_DOMAIN")
		if isWrite {
			r.lift(patterns.SeverityHigh)
		}
	}

	if allowed && len(r.RiskTags) == 0 {
		r.lift(patterns.SeverityLow)
	}

	return r
}
