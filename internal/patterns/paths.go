package patterns

import "strings"

// SensitivePaths is the hard-coded write-blocklist: credentials, SSH keys,
// env files (spec.md §4.1, §4.6).
var SensitivePaths = []string{
	".env", ".env.local", ".env.production",
	".ssh/", "id_rsa", "id_ed25519",
	".aws/credentials", ".aws/config",
	".npmrc", ".netrc",
	"credentials.json", "serviceAccountKey.json",
	".kube/config",
}

// MatchesSensitivePath normalizes backslashes to slashes and tests both
// suffix and "/pattern" containment, per spec.md §4.1.
func MatchesSensitivePath(path string) bool {
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, p := range SensitivePaths {
		if strings.HasSuffix(normalized, p) {
			return true
		}
		if strings.Contains(normalized, "/"+p) {
			return true
		}
		if normalized == p {
			return true
		}
	}
	return false
}

// WebhookDomains are known webhook/exfil relay domains (spec.md §4.1).
var WebhookDomains = map[string]bool{
	"discord.com":       true,
	"discordapp.com":    true,
	"api.telegram.org":  true,
	"hooks.slack.com":   true,
	"webhook.site":      true,
	"requestbin.com":    true,
	"pipedream.com":     true,
	"ngrok.io":          true,
	"ngrok-free.app":    true,
	"beeceptor.com":     true,
	"mockbin.org":       true,
}

// HighRiskTLDs are TLDs that elevate network-request risk (spec.md §4.1).
var HighRiskTLDs = []string{
	".xyz", ".top", ".tk", ".ml", ".ga", ".cf", ".gq", ".work", ".click", ".link",
}

// HasHighRiskTLD reports whether host ends in one of HighRiskTLDs.
func HasHighRiskTLD(host string) bool {
	lower := strings.ToLower(host)
	for _, tld := range HighRiskTLDs {
		if strings.HasSuffix(lower, tld) {
			return true
		}
	}
	return false
}

// IsWebhookDomain reports whether host (or its registrable parent) is a
// known webhook/exfil relay domain.
func IsWebhookDomain(host string) bool {
	lower := strings.ToLower(host)
	if WebhookDomains[lower] {
		return true
	}
	for domain := range WebhookDomains {
		if strings.HasSuffix(lower, "."+domain) {
			return true
		}
	}
	return false
}
